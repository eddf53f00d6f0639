package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Tables []TableConfig   `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TableConfig defines one four-seat table
type TableConfig struct {
	Name        string `hcl:"name,label"`
	TurnTimeout string `hcl:"turn_timeout,optional"`
	Seed        int64  `hcl:"seed,optional"`
	DealFile    string `hcl:"deal_file,optional"`
}

const (
	defaultAddress  = "localhost"
	defaultPort     = 8080
	defaultLogLevel = "info"
	defaultTable    = "main"
)

// DefaultConfig returns the configuration used when no file exists: one
// table called "main" with no turn clock.
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerSettings{
			Address:  defaultAddress,
			Port:     defaultPort,
			LogLevel: defaultLogLevel,
		},
		Tables: []TableConfig{{Name: defaultTable}},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// DefaultConfig. The result has defaults applied and is validated.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaultLogLevel
	}
	if len(c.Tables) == 0 {
		c.Tables = []TableConfig{{Name: defaultTable}}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server == nil {
		return errors.New("missing server block")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.Server.LogLevel, err)
	}
	if len(c.Tables) == 0 {
		return errors.New("at least one table must be configured")
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, table := range c.Tables {
		if table.Name == "" {
			return errors.New("table name must not be empty")
		}
		if seen[table.Name] {
			return fmt.Errorf("table %s: defined more than once", table.Name)
		}
		seen[table.Name] = true

		if _, err := table.Timeout(); err != nil {
			return fmt.Errorf("table %s: %w", table.Name, err)
		}
	}
	return nil
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// Table returns a table configuration by name
func (c *Config) Table(name string) (TableConfig, bool) {
	for _, table := range c.Tables {
		if table.Name == name {
			return table, true
		}
	}
	return TableConfig{}, false
}

// Timeout parses the turn timeout. Empty or zero disables the turn clock.
func (t TableConfig) Timeout() (time.Duration, error) {
	if t.TurnTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(t.TurnTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid turn_timeout %q: %w", t.TurnTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("turn_timeout must not be negative, got %s", d)
	}
	return d, nil
}
