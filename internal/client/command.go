package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Command is one line of player input
type Command struct {
	Verb    string // ready, play, pass, say, quit
	Indices []int
	Text    string
}

// ErrEmptyCommand is returned for blank input lines.
var ErrEmptyCommand = errors.New("empty command")

// ParseCommand reads a line such as "play 0 3 4", "pass", "ready",
// "say good game" or "quit". Indices may also be comma separated.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrEmptyCommand
	}

	verb := strings.ToLower(fields[0])
	switch verb {
	case "r", "ready":
		return Command{Verb: "ready"}, nil
	case "p", "pass":
		return Command{Verb: "pass"}, nil
	case "q", "quit", "exit":
		return Command{Verb: "quit"}, nil
	case "say", "chat":
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		if text == "" {
			return Command{}, fmt.Errorf("%s needs some text", verb)
		}
		return Command{Verb: "say", Text: text}, nil
	case "play":
		var indices []int
		for _, f := range fields[1:] {
			for _, part := range strings.Split(f, ",") {
				if part == "" {
					continue
				}
				i, err := strconv.Atoi(part)
				if err != nil {
					return Command{}, fmt.Errorf("bad card index %q", part)
				}
				indices = append(indices, i)
			}
		}
		if len(indices) == 0 {
			return Command{}, errors.New("play needs at least one card index")
		}
		return Command{Verb: "play", Indices: indices}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// Do sends the command to the server. Quit closes the connection.
func (c *Client) Do(cmd Command) error {
	switch cmd.Verb {
	case "ready":
		return c.Ready()
	case "pass":
		return c.Pass()
	case "play":
		return c.Play(cmd.Indices)
	case "say":
		return c.Chat(cmd.Text)
	case "quit":
		return c.Close()
	default:
		return fmt.Errorf("unknown command %q", cmd.Verb)
	}
}
