package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/lox/bigtwo/cmd/bigtwo/shared"
	"github.com/lox/bigtwo/internal/server"
)

// ServeCmd runs the table server
type ServeCmd struct {
	Config    string `short:"c" default:"bigtwo.hcl" type:"path" env:"BIGTWO_CONFIG" help:"Path to HCL configuration file"`
	Addr      string `short:"a" env:"BIGTWO_ADDR" help:"Address to listen on as host:port (overrides config)"`
	Debug     bool   `env:"BIGTWO_DEBUG" help:"Enable debug logging (overrides config)"`
	LogFormat string `default:"text" enum:"text,json,logfmt" env:"BIGTWO_LOG_FORMAT" help:"Log output format"`
}

func (c *ServeCmd) Run() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	logger := shared.SetupLogger(c.Debug, c.LogFormat)
	level, err := log.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting Big Two server", "addr", cfg.Address(), "tables", len(cfg.Tables), "config", c.Config)
	ctx := shared.SetupSignalHandler(logger)
	return srv.Run(ctx)
}

// loadConfig reads the config file and applies command line overrides
func (c *ServeCmd) loadConfig() (*server.Config, error) {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return nil, err
	}

	if c.Addr != "" {
		host, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return nil, fmt.Errorf("invalid --addr %q: %w", c.Addr, err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid --addr port %q: %w", port, err)
		}
		cfg.Server.Address = host
		cfg.Server.Port = p
	}
	if c.Debug {
		cfg.Server.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
