// Package gameid generates sortable identifiers for dealt games.
//
// An ID is a UUIDv7 rendered as 26 characters of lower-case Crockford
// base32, the same layout TypeID uses: the 128 bits are left-padded with two
// zero bits, so the first character is always 0-7.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet, lower case.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded ID.
const Length = 26

// Generator creates game IDs. A nil random source means crypto/rand.
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator that draws random bits from r
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate creates a new game ID using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new game ID. It panics if the random source fails,
// since an ID is never optional for a dealt game.
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g == nil || g.rand == nil {
		id, err = uuid.NewV7()
	} else {
		id, err = uuid.NewV7FromReader(g.rand)
	}
	if err != nil {
		panic("gameid: generating UUIDv7: " + err.Error())
	}
	return Encode(id)
}

// Encode renders a UUID in the 26 character form
func Encode(id uuid.UUID) string {
	var b strings.Builder
	b.Grow(Length)
	// 130-bit value: two zero bits followed by the 128 UUID bits.
	for i := range Length {
		var v byte
		for k := i*5 - 2; k < i*5+3; k++ {
			v = v<<1 | bit(id, k)
		}
		b.WriteByte(alphabet[v])
	}
	return b.String()
}

// Parse decodes a game ID back into its UUID
func Parse(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := Validate(s); err != nil {
		return id, err
	}
	for i := range Length {
		v := strings.IndexByte(alphabet, s[i])
		for j := 0; j < 5; j++ {
			k := i*5 - 2 + j
			if k < 0 {
				continue
			}
			if v&(1<<(4-j)) != 0 {
				id[k/8] |= 0x80 >> (k % 8)
			}
		}
	}
	return id, nil
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}

func bit(id uuid.UUID, k int) byte {
	if k < 0 {
		return 0
	}
	return (id[k/8] >> (7 - k%8)) & 1
}
