// Package dealfile reads and writes fixed deals.
//
// A deal file holds four non-empty lines, one per seat in seat order, each
// listing that seat's 13 cards in card notation. Blank lines are ignored and
// '#' starts a comment:
//
//	# seat 0 holds the 3♦
//	3d 4d 5d 6d 7d 8d 9d Td Jd Qd Kd Ad 2d
//	3c 4c 5c 6c 7c 8c 9c Tc Jc Qc Kc Ac 2c
//	3h 4h 5h 6h 7h 8h 9h Th Jh Qh Kh Ah 2h
//	3s 4s 5s 6s 7s 8s 9s Ts Js Qs Ks As 2s
package dealfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/bigtwo/bigtwo"
)

// ErrMalformed is returned for files that do not describe a full deal.
var ErrMalformed = errors.New("malformed deal file")

// Deal is four hands in seat order
type Deal = [bigtwo.Players][]bigtwo.Card

// Parse reads a deal and checks that it partitions the deck
func Parse(r io.Reader) (Deal, error) {
	var (
		deal Deal
		seat int
		line int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if seat == bigtwo.Players {
			return Deal{}, fmt.Errorf("%w: line %d: more than %d hands", ErrMalformed, line, bigtwo.Players)
		}
		cards, err := bigtwo.ParseCards(text)
		if err != nil {
			return Deal{}, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
		}
		deal[seat] = cards
		seat++
	}
	if err := sc.Err(); err != nil {
		return Deal{}, fmt.Errorf("reading deal: %w", err)
	}
	if seat != bigtwo.Players {
		return Deal{}, fmt.Errorf("%w: found %d hands, want %d", ErrMalformed, seat, bigtwo.Players)
	}
	if err := bigtwo.ValidateDeal(deal); err != nil {
		return Deal{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return deal, nil
}

// Read parses the deal file at path
func Read(path string) (Deal, error) {
	f, err := os.Open(path)
	if err != nil {
		return Deal{}, err
	}
	defer f.Close()

	deal, err := Parse(f)
	if err != nil {
		return Deal{}, fmt.Errorf("%s: %w", path, err)
	}
	return deal, nil
}

// Format renders a deal in file form, with an optional comment header
func Format(deal Deal, comment string) []byte {
	var buf bytes.Buffer
	for _, line := range strings.Split(comment, "\n") {
		if line != "" {
			fmt.Fprintf(&buf, "# %s\n", line)
		}
	}
	for _, hand := range deal {
		buf.WriteString(bigtwo.FormatCards(hand))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Write validates the deal and stores it at path atomically
func Write(path string, deal Deal, comment string) error {
	if err := bigtwo.ValidateDeal(deal); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return writeFileAtomic(path, Format(deal, comment), 0o644)
}
