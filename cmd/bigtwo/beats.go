package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/bigtwo/bigtwo"
)

// BeatsCmd reports whether the challenger may be played on the incumbent
type BeatsCmd struct {
	Challenger string `required:"" short:"c" help:"Hand being played, e.g. \"8s 8h\""`
	Incumbent  string `required:"" short:"i" help:"Hand on the table, e.g. \"8d 8c\""`
}

func (c *BeatsCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *BeatsCmd) run(w io.Writer) error {
	challenger, err := parseHand(c.Challenger)
	if err != nil {
		return fmt.Errorf("challenger: %w", err)
	}
	incumbent, err := parseHand(c.Incumbent)
	if err != nil {
		return fmt.Errorf("incumbent: %w", err)
	}

	ok, err := bigtwo.Beats(challenger, incumbent)
	if err != nil {
		return err
	}
	verdict := "does not beat"
	if ok {
		verdict = "beats"
	}
	_, err = fmt.Fprintf(w, "%s %s %s\n", renderHand(challenger), verdict, renderHand(incumbent))
	return err
}

func parseHand(s string) (bigtwo.Hand, error) {
	cards, err := bigtwo.ParseCards(s)
	if err != nil {
		return bigtwo.Hand{}, err
	}
	return bigtwo.NewHand(0, cards)
}
