package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/lox/bigtwo/bigtwo"
	"github.com/lox/bigtwo/internal/dealfile"
	"github.com/lox/bigtwo/internal/randutil"
)

// DealCmd shuffles a deck and deals it to four seats
type DealCmd struct {
	Seed int64  `help:"Deterministic RNG seed (0 seeds from the clock)"`
	Out  string `short:"o" type:"path" help:"Write the deal to this file instead of printing it"`
}

func (c *DealCmd) Run() error {
	return c.run(os.Stdout)
}

func (c *DealCmd) run(w io.Writer) error {
	rng, seed := randutil.NewOrTime(c.Seed)
	deal := bigtwo.NewShuffledDeck(rng).Deal()

	if c.Out != "" {
		if err := dealfile.Write(c.Out, deal, fmt.Sprintf("seed %d", seed)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "wrote deal with seed %d to %s\n", seed, c.Out)
		return err
	}

	if _, err := fmt.Fprintf(w, "seed %d\n", seed); err != nil {
		return err
	}
	opener := bigtwo.HolderOf(deal, bigtwo.ThreeOfDiamonds)
	for seat, hand := range deal {
		sorted := slices.Clone(hand)
		bigtwo.SortCards(sorted)

		label := fmt.Sprintf("seat %d", seat)
		if seat == opener {
			label += "*"
		}
		label = seatStyle.Render(fmt.Sprintf("%-7s", label))
		if _, err := fmt.Fprintf(w, "%s %s\n", label, renderCards(sorted)); err != nil {
			return err
		}
	}
	return nil
}
