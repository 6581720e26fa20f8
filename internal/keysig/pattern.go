package keysig

import (
	"fmt"
	"strings"

	"github.com/starford/tessitura/internal/pitch"
)

// CircleOrder is the order in which accidentals are added to a key
// signature: sharps left to right, flats right to left.
const CircleOrder = "FCGDAEB"

// Pattern holds one accidental per letter, indexed in CircleOrder.
type Pattern [Degrees]pitch.Accidental

// ParsePattern parses a 7-character "n"/"b"/"#" pattern in CircleOrder.
func ParsePattern(s string) (Pattern, error) {
	var p Pattern
	if len(s) != Degrees {
		return p, fmt.Errorf("accidental pattern %q: want %d characters, got %d", s, Degrees, len(s))
	}
	for i := range Degrees {
		a, err := pitch.ParseAccidentalCode(s[i])
		if err != nil {
			return p, fmt.Errorf("accidental pattern %q: %w", s, err)
		}
		p[i] = a
	}
	return p, nil
}

// MustParsePattern is ParsePattern for literal patterns.
func MustParsePattern(s string) Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) String() string {
	var b strings.Builder
	for _, a := range p {
		b.WriteByte(a.Code())
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p Pattern) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pattern) UnmarshalText(text []byte) error {
	parsed, err := ParsePattern(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// For returns the accidental the signature applies to letter.
func (p Pattern) For(letter byte) pitch.Accidental {
	i := strings.IndexByte(CircleOrder, letter)
	if i < 0 {
		return pitch.Natural
	}
	return p[i]
}

// Count returns the number of altered letters.
func (p Pattern) Count() int {
	n := 0
	for _, a := range p {
		if a != pitch.Natural {
			n++
		}
	}
	return n
}
