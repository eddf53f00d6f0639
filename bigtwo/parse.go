package bigtwo

import (
	"fmt"
	"strings"
)

// ParseCard parses a single card in notation form. The rank comes first
// (A, 2-9, T or 10, J, Q, K) followed by the suit (d, c, h, s). Both are
// case-insensitive.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid card string %q", s)
	}

	rankPart, suitPart := s[:len(s)-1], s[len(s)-1]

	rank, err := parseRank(rankPart)
	if err != nil {
		return 0, fmt.Errorf("invalid card %q: %w", s, err)
	}
	suit, err := parseSuit(suitPart)
	if err != nil {
		return 0, fmt.Errorf("invalid card %q: %w", s, err)
	}

	return NewCard(suit, rank), nil
}

// ParseCards parses a list of cards. Cards may be separated by spaces or
// commas, or written back to back ("3d4d5d").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})

	var cards []Card
	for _, field := range fields {
		tokens, err := splitCardTokens(field)
		if err != nil {
			return nil, err
		}
		for _, tok := range tokens {
			c, err := ParseCard(tok)
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

// splitCardTokens breaks a run like "10d3c" into "10d", "3c".
func splitCardTokens(field string) ([]string, error) {
	var tokens []string
	for i := 0; i < len(field); {
		n := 2
		if strings.HasPrefix(field[i:], "10") {
			n = 3
		}
		if i+n > len(field) {
			return nil, fmt.Errorf("incomplete card at position %d in %q", i, field)
		}
		tokens = append(tokens, field[i:i+n])
		i += n
	}
	return tokens, nil
}

func parseRank(s string) (Rank, error) {
	if s == "10" {
		return Ten, nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("unknown rank %q", s)
	}
	switch s[0] {
	case 'A', 'a':
		return Ace, nil
	case 'K', 'k':
		return King, nil
	case 'Q', 'q':
		return Queen, nil
	case 'J', 'j':
		return Jack, nil
	case 'T', 't':
		return Ten, nil
	case '9':
		return Nine, nil
	case '8':
		return Eight, nil
	case '7':
		return Seven, nil
	case '6':
		return Six, nil
	case '5':
		return Five, nil
	case '4':
		return Four, nil
	case '3':
		return Three, nil
	case '2':
		return Two, nil
	default:
		return 0, fmt.Errorf("unknown rank '%c'", s[0])
	}
}

func parseSuit(c byte) (Suit, error) {
	switch c {
	case 'd', 'D':
		return Diamonds, nil
	case 'c', 'C':
		return Clubs, nil
	case 'h', 'H':
		return Hearts, nil
	case 's', 'S':
		return Spades, nil
	default:
		return 0, fmt.Errorf("unknown suit '%c'", c)
	}
}

// FormatCards joins cards in notation form separated by spaces
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
