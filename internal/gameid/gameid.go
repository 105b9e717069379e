// Package gameid generates round identifiers: UUIDv7 values encoded as
// 26-character lowercase Crockford base32, the TypeID suffix format. IDs sort
// lexically in creation order.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// encodedLen is 130 bits: two zero bits followed by the 128-bit UUID
const encodedLen = 26

// Generator produces round IDs. Supplying a reader makes the random part of
// each ID reproducible; the timestamp part always comes from the wall clock.
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto/rand.
func NewGenerator(rand io.Reader) *Generator {
	return &Generator{rand: rand}
}

// Generate creates a new ID from crypto randomness
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new ID
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("failed to generate round ID: " + err.Error())
	}
	return Encode(id)
}

// Encode renders a UUID in the 26-character base32 form
func Encode(id uuid.UUID) string {
	out := make([]byte, encodedLen)
	for i := range encodedLen {
		var v byte
		for j := range 5 {
			v = v<<1 | bit(id, i*5+j-2)
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

// Decode parses an encoded ID back into its UUID and checks it is a v7
func Decode(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := Validate(s); err != nil {
		return id, err
	}

	for i := range encodedLen {
		v := strings.IndexByte(alphabet, s[i])
		for j := range 5 {
			n := i*5 + j - 2
			if n < 0 || v&(1<<(4-j)) == 0 {
				continue
			}
			id[n/8] |= 1 << (7 - n%8)
		}
	}

	if id.Version() != 7 {
		return uuid.UUID{}, fmt.Errorf("round ID %s is UUID version %d, want 7", s, id.Version())
	}
	return id, nil
}

// Validate checks if an ID is well formed (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != encodedLen {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", encodedLen, len(id))
	}

	// The leading two bits are always zero
	if id[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}

func bit(id uuid.UUID, n int) byte {
	if n < 0 {
		return 0
	}
	return (id[n/8] >> (7 - n%8)) & 1
}
