package bigtwo

import (
	"encoding/json"
	"fmt"
)

// Suit is a card suit, ordered Diamonds < Clubs < Hearts < Spades.
type Suit uint8

const (
	Diamonds Suit = iota
	Clubs
	Hearts
	Spades
)

// String returns the notation letter for the suit
func (s Suit) String() string {
	switch s {
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Symbol returns the unicode pip for the suit
func (s Suit) Symbol() string {
	switch s {
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true for diamonds and hearts
func (s Suit) IsRed() bool {
	return s == Diamonds || s == Hearts
}

// Rank is a card rank in storage order: Ace=0, Two=1, Three=2 ... King=12.
type Rank uint8

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

const rankLetters = "A23456789TJQK"

// String returns the notation character for the rank
func (r Rank) String() string {
	if r > King {
		return "?"
	}
	return string(rankLetters[r])
}

// Value maps a rank onto its play-order position: 3 is lowest (2), K is 12,
// A is 13 and 2 is the top at 14. Straights are tested on these values.
func (r Rank) Value() int {
	switch r {
	case Ace:
		return 13
	case Two:
		return 14
	default:
		return int(r)
	}
}

// Card is an immutable playing card. The underlying value is the card's
// position in storage order (rank*4 + suit), so it is also a deck index.
type Card uint8

// ThreeOfDiamonds is the card that must open every game.
var ThreeOfDiamonds = NewCard(Diamonds, Three)

// NewCard creates a card from a suit and rank
func NewCard(suit Suit, rank Rank) Card {
	return Card(uint8(rank)*4 + uint8(suit))
}

// Suit returns the suit of the card
func (c Card) Suit() Suit {
	return Suit(uint8(c) % 4)
}

// Rank returns the rank of the card
func (c Card) Rank() Rank {
	return Rank(uint8(c) / 4)
}

// Index returns the storage-order position of the card (0-51)
func (c Card) Index() int {
	return int(c)
}

// Valid reports whether the card is one of the 52 cards of the deck
func (c Card) Valid() bool {
	return uint8(c) < 52
}

// String returns the card in notation form, e.g. "3d" or "As"
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// Symbol returns the card with a suit pip, e.g. "3♦"
func (c Card) Symbol() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().Symbol()
}

// Compare orders two cards by play order: 3 < 4 < ... < K < A < 2, with
// suit breaking ties. It returns a negative number when a < b, zero when
// they are the same card and a positive number when a > b.
func Compare(a, b Card) int {
	av, bv := a.Rank().Value(), b.Rank().Value()
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	case a.Suit() < b.Suit():
		return -1
	case a.Suit() > b.Suit():
		return 1
	default:
		return 0
	}
}

type cardJSON struct {
	Suit uint8 `json:"suit"`
	Rank uint8 `json:"rank"`
}

// MarshalJSON encodes the card as {"suit":s,"rank":r} using storage indices
func (c Card) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid card value %d", uint8(c))
	}
	return json.Marshal(cardJSON{Suit: uint8(c.Suit()), Rank: uint8(c.Rank())})
}

// UnmarshalJSON decodes a card written by MarshalJSON
func (c *Card) UnmarshalJSON(data []byte) error {
	var v cardJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Suit > uint8(Spades) {
		return fmt.Errorf("suit %d out of range", v.Suit)
	}
	if v.Rank > uint8(King) {
		return fmt.Errorf("rank %d out of range", v.Rank)
	}
	*c = NewCard(Suit(v.Suit), Rank(v.Rank))
	return nil
}
