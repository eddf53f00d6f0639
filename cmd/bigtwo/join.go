package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/bigtwo/cmd/bigtwo/shared"
	"github.com/lox/bigtwo/internal/client"
	"github.com/lox/bigtwo/internal/server"
)

// JoinCmd takes a seat at a table and plays from the terminal
type JoinCmd struct {
	Config    string `short:"c" default:"bigtwo-client.hcl" type:"path" env:"BIGTWO_CLIENT_CONFIG" help:"Path to client HCL configuration file"`
	URL       string `short:"u" env:"BIGTWO_URL" help:"Server URL (overrides config)"`
	Table     string `short:"t" env:"BIGTWO_TABLE" help:"Table name (overrides config)"`
	Name      string `short:"n" env:"BIGTWO_NAME" help:"Player name (overrides config)"`
	AutoReady bool   `help:"Ready up automatically for every game"`
	Debug     bool   `help:"Enable debug logging"`
}

func (c *JoinCmd) Run() error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	logger := shared.SetupLogger(c.Debug, "text")
	if !c.Debug {
		level, err := log.ParseLevel(cfg.Player.LogLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
	}

	ctx := shared.SetupSignalHandler(logger)
	return play(ctx, cfg, logger, os.Stdin, os.Stdout)
}

func (c *JoinCmd) loadConfig() (*client.Config, error) {
	cfg, err := client.LoadConfig(c.Config)
	if err != nil {
		return nil, err
	}
	if c.URL != "" {
		cfg.Server.URL = c.URL
	}
	if c.Table != "" {
		cfg.Server.Table = c.Table
	}
	if c.Name != "" {
		cfg.Player.Name = c.Name
	}
	if c.AutoReady {
		cfg.Player.AutoReady = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// play connects, joins and then relays commands from in and messages to
// out until the player quits, input ends or the server goes away.
func play(ctx context.Context, cfg *client.Config, logger *log.Logger, in io.Reader, out io.Writer) error {
	out = &lockedWriter{w: out}
	cl := client.New(cfg.Server.URL, cfg.Server.Table, logger)

	dialCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()
	if err := cl.Connect(dialCtx); err != nil {
		return err
	}
	defer cl.Close()

	if err := cl.Join(cfg.Player.Name); err != nil {
		return err
	}
	if cfg.Player.AutoReady {
		if err := cl.Ready(); err != nil {
			return err
		}
	}

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for msg := range cl.Messages() {
			line, err := renderMessage(msg)
			if err != nil {
				logger.Warn("Failed to decode message", "type", msg.Type, "error", err)
				continue
			}
			fmt.Fprintln(out, line)

			if cfg.Player.AutoReady && readyAgain(msg.Type) {
				if err := cl.Ready(); err != nil {
					logger.Debug("Failed to ready up", "error", err)
				}
			}
		}
	}()

	lines := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = cl.Close()
			<-printed
			return nil

		case <-printed:
			return errors.New("disconnected from server")

		case line, ok := <-lines:
			if !ok {
				_ = cl.Close()
				<-printed
				return nil
			}
			cmd, err := client.ParseCommand(line)
			if errors.Is(err, client.ErrEmptyCommand) {
				continue
			}
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
				continue
			}
			if err := cl.Do(cmd); err != nil {
				return err
			}
			if cmd.Verb == "quit" {
				<-printed
				return nil
			}
		}
	}
}

func readyAgain(mt server.MessageType) bool {
	return mt == server.MessageTypeGameOver || mt == server.MessageTypeGameAborted
}

// lockedWriter serializes writes from the input and message goroutines
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
