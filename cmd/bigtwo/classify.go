package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/bigtwo/bigtwo"
)

// ClassifyCmd prints the kind of hand the given cards make
type ClassifyCmd struct {
	Cards []string `arg:"" name:"card" help:"Cards in notation form, e.g. 3d 4d 5d 6d 7d"`
}

func (c *ClassifyCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *ClassifyCmd) run(w io.Writer) error {
	cards, err := bigtwo.ParseCards(strings.Join(c.Cards, " "))
	if err != nil {
		return err
	}

	hand, err := bigtwo.NewHand(0, cards)
	switch {
	case errors.Is(err, bigtwo.ErrInvalidHand):
		_, err = fmt.Fprintf(w, "%s %s\n", errorStyle.Render("not a legal hand:"), renderCards(cards))
		return err
	case err != nil:
		return err
	}
	_, err = fmt.Fprintln(w, renderHand(hand))
	return err
}
