package bigtwo

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicateCard is returned when a card would appear twice in a list.
	ErrDuplicateCard = errors.New("duplicate card")
	// ErrInvalidCard is returned for values outside the 52-card deck.
	ErrInvalidCard = errors.New("invalid card")
	// ErrBadSelection is returned when card indices are out of range or repeated.
	ErrBadSelection = errors.New("bad card selection")
)

// CardList is an ordered collection of distinct cards.
type CardList struct {
	cards []Card
}

// NewCardList builds a list from the given cards, rejecting duplicates
func NewCardList(cards ...Card) (*CardList, error) {
	l := &CardList{cards: make([]Card, 0, len(cards))}
	for _, c := range cards {
		if err := l.Add(c); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Add appends a card to the end of the list
func (l *CardList) Add(c Card) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCard, uint8(c))
	}
	if l.Contains(c) {
		return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
	}
	l.cards = append(l.cards, c)
	return nil
}

// Remove deletes a card by value, reporting whether it was present
func (l *CardList) Remove(c Card) bool {
	i := slices.Index(l.cards, c)
	if i < 0 {
		return false
	}
	l.cards = slices.Delete(l.cards, i, i+1)
	return true
}

// RemoveAll deletes every given card that is present in the list
func (l *CardList) RemoveAll(cards []Card) {
	l.cards = slices.DeleteFunc(l.cards, func(c Card) bool {
		return slices.Contains(cards, c)
	})
}

// Len returns the number of cards in the list
func (l *CardList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.cards)
}

// At returns the card at index i
func (l *CardList) At(i int) Card {
	return l.cards[i]
}

// Contains reports whether the card is in the list
func (l *CardList) Contains(c Card) bool {
	if l == nil {
		return false
	}
	return slices.Contains(l.cards, c)
}

// Sort orders the list in place by play order
func (l *CardList) Sort() {
	SortCards(l.cards)
}

// Cards returns a copy of the cards in list order
func (l *CardList) Cards() []Card {
	if l == nil {
		return nil
	}
	return slices.Clone(l.cards)
}

// Clone returns an independent copy of the list
func (l *CardList) Clone() *CardList {
	return &CardList{cards: l.Cards()}
}

// Select resolves indices into the cards they point at. Indices must be in
// range and may not repeat.
func (l *CardList) Select(indices []int) ([]Card, error) {
	seen := make(map[int]bool, len(indices))
	out := make([]Card, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= l.Len() {
			return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrBadSelection, idx, l.Len())
		}
		if seen[idx] {
			return nil, fmt.Errorf("%w: index %d repeated", ErrBadSelection, idx)
		}
		seen[idx] = true
		out = append(out, l.cards[idx])
	}
	return out, nil
}

// String formats the list in notation form
func (l *CardList) String() string {
	return FormatCards(l.Cards())
}

// SortCards orders a slice in place by play order
func SortCards(cards []Card) {
	slices.SortFunc(cards, Compare)
}
