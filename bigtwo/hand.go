package bigtwo

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidHand is returned when cards form no legal hand.
	ErrInvalidHand = errors.New("cards do not form a legal hand")
	// ErrUnclassifiedHand is returned when a zero Hand is compared.
	ErrUnclassifiedHand = errors.New("hand has not been classified")
)

// Hand is a classified set of cards played by one seat. The kind is derived
// from the cards when the hand is built and the hand keeps its own sorted
// copy of them, so the two cannot drift apart.
type Hand struct {
	owner int
	cards []Card
	kind  Kind
}

// NewHand classifies the cards and returns a Hand owned by the given seat.
// The caller's slice is not modified.
func NewHand(owner int, cards []Card) (Hand, error) {
	sorted := slices.Clone(cards)
	for i, c := range sorted {
		if !c.Valid() {
			return Hand{}, fmt.Errorf("%w: %d", ErrInvalidCard, uint8(c))
		}
		if slices.Contains(sorted[:i], c) {
			return Hand{}, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
	}

	kind, ok := Classify(sorted)
	if !ok {
		return Hand{}, fmt.Errorf("%w: %s", ErrInvalidHand, FormatCards(sorted))
	}
	return Hand{owner: owner, cards: sorted, kind: kind}, nil
}

// MustNewHand builds a hand and panics if the cards are not a legal hand (for tests)
func MustNewHand(owner int, cards []Card) Hand {
	h, err := NewHand(owner, cards)
	if err != nil {
		panic(err)
	}
	return h
}

// Kind returns the classified kind, or Invalid for a zero Hand
func (h Hand) Kind() Kind { return h.kind }

// Owner returns the seat that played the hand
func (h Hand) Owner() int { return h.owner }

// Len returns the number of cards in the hand
func (h Hand) Len() int { return len(h.cards) }

// Cards returns a copy of the hand's cards in play order
func (h Hand) Cards() []Card { return slices.Clone(h.cards) }

// Contains reports whether the hand holds the card
func (h Hand) Contains(c Card) bool { return slices.Contains(h.cards, c) }

// IsZero reports whether the hand was never classified
func (h Hand) IsZero() bool { return h.kind == Invalid }

// TopCard returns the card that decides comparisons within a kind. For a
// full house it is the highest card of the triple, for a quad the highest
// card of the four; for every other kind it is the highest card.
func (h Hand) TopCard() Card {
	n := len(h.cards)
	if n == 0 {
		return 0
	}
	switch h.kind {
	case FullHouse:
		// Sorted 3+2 or 2+3: the triple ends at index 2 or index 4.
		if h.cards[2].Rank() == h.cards[4].Rank() {
			return h.cards[4]
		}
		return h.cards[2]
	case Quad:
		if h.cards[0].Rank() == h.cards[3].Rank() {
			return h.cards[3]
		}
		return h.cards[4]
	default:
		return h.cards[n-1]
	}
}

// String formats the hand as "Kind [cards]"
func (h Hand) String() string {
	return fmt.Sprintf("%s [%s]", h.kind, FormatCards(h.cards))
}
