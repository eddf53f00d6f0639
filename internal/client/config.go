package client

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete client configuration
type Config struct {
	Server ServerConnection `hcl:"server,block"`
	Player PlayerSettings   `hcl:"player,block"`
}

// ServerConnection contains server connection settings
type ServerConnection struct {
	URL            string `hcl:"url,optional"`
	Table          string `hcl:"table,optional"`
	ConnectTimeout int    `hcl:"connect_timeout,optional"` // seconds
}

// PlayerSettings contains player-specific settings
type PlayerSettings struct {
	Name      string `hcl:"name,optional"`
	AutoReady bool   `hcl:"auto_ready,optional"`
	LogLevel  string `hcl:"log_level,optional"`
}

// DefaultConfig returns default client configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConnection{
			URL:            "http://localhost:8080",
			ConnectTimeout: 10,
		},
		Player: PlayerSettings{
			LogLevel: "warn",
		},
	}
}

// LoadConfig loads client configuration from an HCL file. A missing file
// yields DefaultConfig.
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

	defaults := DefaultConfig()
	if config.Server.URL == "" {
		config.Server.URL = defaults.Server.URL
	}
	if config.Server.ConnectTimeout == 0 {
		config.Server.ConnectTimeout = defaults.Server.ConnectTimeout
	}
	if config.Player.LogLevel == "" {
		config.Player.LogLevel = defaults.Player.LogLevel
	}

	return &config, nil
}

// Validate validates the client configuration
func (c *Config) Validate() error {
	if _, err := WebSocketURL(c.Server.URL, c.Server.Table); err != nil {
		return err
	}
	if c.Player.Name == "" {
		return errors.New("player name is required")
	}
	if c.Server.ConnectTimeout <= 0 {
		return errors.New("connect timeout must be positive")
	}
	if _, err := log.ParseLevel(c.Player.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Player.LogLevel)
	}
	return nil
}

// Timeout returns the connect timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.ConnectTimeout) * time.Second
}
