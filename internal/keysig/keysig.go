// Package keysig generates the circle-of-fifths key signature catalog: 15
// roots, each with a major key and its natural, harmonic and melodic
// relative minors.
package keysig

import (
	"fmt"
	"strings"

	"github.com/starford/tessitura/internal/pitch"
)

// Degrees is the number of scale degrees in every key signature.
const Degrees = 7

// ScaleType selects the interval pattern of a key signature.
type ScaleType uint8

const (
	Major ScaleType = iota
	NaturalMinor
	HarmonicMinor
	MelodicMinor
)

var scaleTypeNames = [...]string{"major", "naturalminor", "harmonicminor", "melodicminor"}

func (t ScaleType) String() string {
	if int(t) < len(scaleTypeNames) {
		return scaleTypeNames[t]
	}
	return fmt.Sprintf("ScaleType(%d)", t)
}

// MarshalText implements encoding.TextMarshaler.
func (t ScaleType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ScaleType) UnmarshalText(text []byte) error {
	parsed, err := ParseScaleType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseScaleType parses "major", "naturalminor", "harmonicminor" or
// "melodicminor".
func ParseScaleType(s string) (ScaleType, error) {
	for i, name := range scaleTypeNames {
		if strings.EqualFold(s, name) {
			return ScaleType(i), nil
		}
	}
	return Major, fmt.Errorf("unknown scale type %q", s)
}

// Kind is the accidental family of a key signature.
type Kind uint8

const (
	None Kind = iota
	Flats
	Sharps
)

func (k Kind) String() string {
	switch k {
	case Flats:
		return "flat"
	case Sharps:
		return "sharp"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*k = None
	case "flat":
		*k = Flats
	case "sharp":
		*k = Sharps
	default:
		return fmt.Errorf("unknown accidental kind %q", text)
	}
	return nil
}

// Ascending and descending interval patterns, in semitones above the root.
var (
	majorAscending         = [Degrees]int{0, 2, 4, 5, 7, 9, 11}
	majorDescending        = [Degrees]int{0, 2, 4, 5, 7, 9, 11}
	naturalMinorAscending  = [Degrees]int{0, 2, 3, 5, 7, 8, 10}
	naturalMinorDescending = [Degrees]int{0, 2, 3, 5, 7, 8, 10}
	harmonicAscending      = [Degrees]int{0, 2, 3, 5, 7, 8, 11}
	harmonicDescending     = [Degrees]int{0, 2, 3, 5, 7, 8, 11}
	melodicAscending       = [Degrees]int{0, 2, 3, 5, 7, 9, 11}
	// Melodic minor descends as a natural minor.
	melodicDescending = naturalMinorDescending
)

// Intervals returns the ascending and descending patterns of t.
func Intervals(t ScaleType) (ascending, descending [Degrees]int) {
	switch t {
	case NaturalMinor:
		return naturalMinorAscending, naturalMinorDescending
	case HarmonicMinor:
		return harmonicAscending, harmonicDescending
	case MelodicMinor:
		return melodicAscending, melodicDescending
	default:
		return majorAscending, majorDescending
	}
}

// KeySignature is one scale variant of one circle-of-fifths root.
//
// Ascending and Descending are root + interval and are not reduced mod 12:
// a harmonic minor rooted on A reaches 20, not 8. PitchClasses gives the
// reduced view.
type KeySignature struct {
	Name        string         `json:"name"`
	Kind        Kind           `json:"kind"`
	ScaleType   ScaleType      `json:"scale_type"`
	Root        int            `json:"root"`
	Ascending   [Degrees]int   `json:"ascending"`
	Descending  [Degrees]int   `json:"descending"`
	RootKeyName string         `json:"root_key_name"`
	Accidentals Pattern        `json:"accidentals"`
	Tonic       pitch.Spelling `json:"-"`
}

// Generate builds one key signature. startNominal is the root pitch class.
func Generate(name string, startNominal int, scaleType ScaleType, rootKeyName string, kind Kind, accidentals Pattern) KeySignature {
	asc, desc := Intervals(scaleType)
	key := KeySignature{
		Name:        name,
		Kind:        kind,
		ScaleType:   scaleType,
		Root:        startNominal,
		RootKeyName: rootKeyName,
		Accidentals: accidentals,
		Tonic:       tonicSpelling(name),
	}
	for i := range Degrees {
		key.Ascending[i] = asc[i] + startNominal
		key.Descending[i] = desc[i] + startNominal
	}
	return key
}

// tonicSpelling reads the tonic from the first word of a key name such as
// "F♯" or "e♭ harmonic". Names outside the catalog's form give the zero
// spelling.
func tonicSpelling(name string) pitch.Spelling {
	word, _, _ := strings.Cut(name, " ")
	tonic, err := pitch.ParseSpelling(word)
	if err != nil {
		return pitch.Spelling{}
	}
	return tonic
}

// PitchClasses returns the ascending values reduced mod 12.
func (k KeySignature) PitchClasses() [Degrees]int {
	var out [Degrees]int
	for i, v := range k.Ascending {
		out[i] = pitch.Class(v)
	}
	return out
}

// Intervals returns the ascending and descending values relative to the root.
func (k KeySignature) Intervals() (ascending, descending [Degrees]int) {
	for i := range Degrees {
		ascending[i] = k.Ascending[i] - k.Root
		descending[i] = k.Descending[i] - k.Root
	}
	return ascending, descending
}

// IsMajor reports whether the signature is the major key of its root.
func (k KeySignature) IsMajor() bool {
	return k.ScaleType == Major
}

// Transposition is the number of semitones added to a sounding pitch to get
// the written pitch of an instrument pitched in this key (2 for B♭, 0 for C).
func (k KeySignature) Transposition() int {
	return pitch.Class(12 - k.Root)
}

// degreeLetter returns the letter of the scale degree holding pitch class pc.
func (k KeySignature) degreeLetter(pc int) (byte, bool) {
	tonic := strings.IndexByte(letters, k.Tonic.Letter)
	if tonic < 0 {
		return 0, false
	}
	for _, values := range [2][Degrees]int{k.Ascending, k.Descending} {
		for i, v := range values {
			if pitch.Class(v) == pc {
				return letters[(tonic+i)%len(letters)], true
			}
		}
	}
	return 0, false
}

const letters = "CDEFGAB"

// Spell names note n in this key with the octave label moved by shift.
//
// A note on a scale degree is spelled with that degree's letter (E# in F♯
// major, Cb in G♭ major). Other notes use the spelling the accidental
// pattern agrees with, then the key's accidental kind.
func (k KeySignature) Spell(n pitch.KeyboardNote, shift int) string {
	if letter, ok := k.degreeLetter(n.PitchClass); ok {
		if s, ok := n.Spellings.WithLetter(letter); ok {
			return n.Label(s, shift)
		}
	}
	for _, s := range n.Spellings.All() {
		if k.Accidentals.For(s.Letter) == s.Accidental {
			return n.Label(s, shift)
		}
	}

	var prefer []pitch.Accidental
	switch k.Kind {
	case Flats:
		prefer = []pitch.Accidental{pitch.Flat, pitch.Natural, pitch.Sharp}
	case Sharps:
		prefer = []pitch.Accidental{pitch.Sharp, pitch.Natural, pitch.Flat}
	default:
		prefer = []pitch.Accidental{pitch.Natural, pitch.Sharp, pitch.Flat}
	}
	for _, a := range prefer {
		if s, ok := n.Spellings.Get(a); ok {
			return n.Label(s, shift)
		}
	}
	// Unreachable: every note has at least one spelling.
	return ""
}
