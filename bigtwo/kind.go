package bigtwo

// Kind enumerates the legal hand shapes. Invalid is the zero value and marks
// a hand that was never classified.
type Kind uint8

const (
	Invalid Kind = iota
	Single
	Pair
	Triple
	Straight
	Flush
	FullHouse
	Quad
	StraightFlush
)

// kindStrength ranks the five-card kinds against each other. Kinds of other
// sizes never meet a different kind of their own size, so they share 0.
var kindStrength = [...]int{
	Invalid:       -1,
	Single:        0,
	Pair:          0,
	Triple:        0,
	Straight:      1,
	Flush:         2,
	FullHouse:     3,
	Quad:          4,
	StraightFlush: 5,
}

// Strength returns the cross-kind strength used when two five-card hands of
// different kinds meet.
func (k Kind) Strength() int {
	if int(k) >= len(kindStrength) {
		return -1
	}
	return kindStrength[k]
}

// Size returns the number of cards a hand of this kind holds
func (k Kind) Size() int {
	switch k {
	case Single:
		return 1
	case Pair:
		return 2
	case Triple:
		return 3
	case Straight, Flush, FullHouse, Quad, StraightFlush:
		return 5
	default:
		return 0
	}
}

// String returns the display name of the kind
func (k Kind) String() string {
	switch k {
	case Single:
		return "Single"
	case Pair:
		return "Pair"
	case Triple:
		return "Triple"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "FullHouse"
	case Quad:
		return "Quad"
	case StraightFlush:
		return "StraightFlush"
	default:
		return "Invalid"
	}
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by MarshalText
func (k *Kind) UnmarshalText(text []byte) error {
	for candidate := Single; candidate <= StraightFlush; candidate++ {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	*k = Invalid
	return nil
}
