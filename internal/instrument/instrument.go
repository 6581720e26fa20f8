// Package instrument is the static registry of supported instruments.
package instrument

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tessitura/internal/keysig"
	"github.com/starford/tessitura/internal/pitch"
	"github.com/starford/tessitura/internal/scale"
)

// Clef is the clef an instrument reads, with an optional octave annotation
// such as "8va" or "8vb".
type Clef struct {
	Name       string `json:"name"`
	Annotation string `json:"annotation,omitempty"`
}

// Validate requires a clef name.
func (c Clef) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
	)
}

// Instrument describes one instrument's playable range and notation.
// Low and High are absolute keyboard values at concert pitch.
type Instrument struct {
	Name        string              `json:"name"`
	Low         int                 `json:"low"`
	High        int                 `json:"high"`
	Pitch       keysig.KeySignature `json:"-"`
	Clef        Clef                `json:"clef"`
	OctaveShift int                 `json:"octave_shift"`
}

// Range returns the playable range at concert pitch.
func (i Instrument) Range() scale.Range {
	return scale.Range{Low: i.Low, High: i.High}
}

// Transposition is the number of semitones from concert to written pitch.
func (i Instrument) Transposition() int {
	return i.Pitch.Transposition()
}

// Validate checks that the range is ordered and lies on the keyboard.
func (i Instrument) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required),
		validation.Field(&i.Low, validation.Min(pitch.Lowest), validation.Max(i.High-1)),
		validation.Field(&i.High, validation.Max(pitch.Highest)),
		validation.Field(&i.Clef),
	)
}

type definition struct {
	name        string
	low, high   int
	pitch       string
	clef        Clef
	octaveShift int
}

var definitions = []definition{
	{"Concert Flute", 36, 72, "C", Clef{Name: "treble"}, 1},     // C4..C7
	{"Bassoon", 10, 51, "C", Clef{Name: "bass"}, 1},             // Bb1..Eb5
	{"Violin", 31, 83, "C", Clef{Name: "treble"}, 1},            // G3..B7
	{"Soprano Recorder", 36, 62, "C", Clef{"treble", "8va"}, 1}, // C4..D6
	{"Alto Recorder", 41, 67, "C", Clef{Name: "treble"}, 0},     // F4..G6
	{"Tenor Recorder", 36, 62, "C", Clef{Name: "treble"}, 0},    // C4..D6
	{"Bass Recorder", 17, 43, "C", Clef{"bass", "8vb"}, -1},     // F2..G4
}

// Catalog builds the instrument registry, resolving each instrument's pitch
// against keys by exact name.
func Catalog(keys []keysig.KeySignature) ([]Instrument, error) {
	byName := make(map[string]keysig.KeySignature, len(keys))
	for _, k := range keys {
		byName[k.Name] = k
	}

	out := make([]Instrument, 0, len(definitions))
	for _, d := range definitions {
		k, ok := byName[d.pitch]
		if !ok {
			return nil, fmt.Errorf("instrument %s: pitch key %q is not in the key signature catalog", d.name, d.pitch)
		}
		inst := Instrument{
			Name:        d.name,
			Low:         d.low,
			High:        d.high,
			Pitch:       k,
			Clef:        d.clef,
			OctaveShift: d.octaveShift,
		}
		if err := inst.Validate(); err != nil {
			return nil, fmt.Errorf("instrument %s: %w", d.name, err)
		}
		out = append(out, inst)
	}
	return out, nil
}
