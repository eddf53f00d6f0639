package bigtwo

import (
	"fmt"
	"math/rand/v2"
)

const (
	// DeckSize is the number of cards in a Big Two deck.
	DeckSize = 52
	// Players is the number of seats at a table.
	Players = 4
	// HandSize is the number of cards dealt to each seat.
	HandSize = DeckSize / Players
)

// Deck is the 52-card deck
type Deck struct {
	cards [DeckSize]Card
}

// NewDeck creates a deck in storage order (rank ascending, then suit)
func NewDeck() *Deck {
	d := &Deck{}
	for i := range d.cards {
		d.cards[i] = Card(i)
	}
	return d
}

// NewShuffledDeck creates a deck and shuffles it with the given source
func NewShuffledDeck(rng *rand.Rand) *Deck {
	d := NewDeck()
	d.Shuffle(rng)
	return d
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Cards returns the deck in its current order
func (d *Deck) Cards() []Card {
	out := make([]Card, DeckSize)
	copy(out, d.cards[:])
	return out
}

// Deal splits the deck round-robin: card 4*i+j goes to seat j.
func (d *Deck) Deal() [Players][]Card {
	var hands [Players][]Card
	for j := range hands {
		hands[j] = make([]Card, 0, HandSize)
	}
	for i, c := range d.cards {
		hands[i%Players] = append(hands[i%Players], c)
	}
	return hands
}

// ValidateDeal checks that four hands partition the deck: 13 cards each,
// 52 distinct valid cards in total.
func ValidateDeal(hands [Players][]Card) error {
	var seen [DeckSize]bool
	for seat, hand := range hands {
		if len(hand) != HandSize {
			return fmt.Errorf("seat %d holds %d cards, want %d", seat, len(hand), HandSize)
		}
		for _, c := range hand {
			if !c.Valid() {
				return fmt.Errorf("seat %d: %w: %d", seat, ErrInvalidCard, uint8(c))
			}
			if seen[c] {
				return fmt.Errorf("seat %d: %w: %s", seat, ErrDuplicateCard, c)
			}
			seen[c] = true
		}
	}
	return nil
}

// HolderOf returns the seat holding the card, or -1
func HolderOf(hands [Players][]Card, c Card) int {
	for seat, hand := range hands {
		for _, hc := range hand {
			if hc == c {
				return seat
			}
		}
	}
	return -1
}
