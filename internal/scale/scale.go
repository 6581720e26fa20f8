// Package scale holds the abstract scales, modes and display directions and
// anchors them to absolute keyboard notes.
package scale

import (
	"fmt"
	"strings"

	"github.com/starford/tessitura/internal/keysig"
)

// Scale is a named sequence of semitone offsets above a root.
type Scale struct {
	Name            string `json:"name"`
	NominalSequence []int  `json:"nominal_sequence"`
}

// Sequence returns the scale as a resolvable sequence.
func (s Scale) Sequence() Sequence {
	return Sequence{Ascending: append([]int(nil), s.NominalSequence...)}
}

// Mode starts a major scale on the degree Nominal semitones above its root.
type Mode struct {
	Name    string `json:"name"`
	Nominal int    `json:"nominal"`
}

// Sequence returns the major scale rotated to begin at the mode's nominal,
// as offsets from the mode's own tonic. Dorian gives 0 2 3 5 7 9 10.
func (m Mode) Sequence() Sequence {
	major, _ := keysig.Intervals(keysig.Major)
	start := -1
	for i, v := range major {
		if v == m.Nominal {
			start = i
			break
		}
	}
	if start < 0 {
		return Sequence{}
	}
	out := make([]int, len(major))
	for j := range major {
		i := start + j
		out[j] = major[i%len(major)] + 12*(i/len(major)) - m.Nominal
	}
	return Sequence{Ascending: out}
}

var scales = []Scale{
	{Name: "Diatonic", NominalSequence: []int{0, 2, 4, 5, 7, 9, 11}},
	{Name: "Pentatonic", NominalSequence: []int{0, 2, 4, 7, 9}},
	{Name: "Thirds", NominalSequence: []int{0, 4, 7, 11}},
	{Name: "Fourths", NominalSequence: []int{0, 5}},
	{Name: "Fifths", NominalSequence: []int{0, 7}},
	{Name: "Chromatic", NominalSequence: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
}

var modes = []Mode{
	{Name: "Ionian", Nominal: 0},
	{Name: "Dorian", Nominal: 2},
	{Name: "Phrygian", Nominal: 4},
	{Name: "Lydian", Nominal: 5},
	{Name: "Mixolydian", Nominal: 7},
	{Name: "Aeolian (natural minor)", Nominal: 9},
	{Name: "Locrian", Nominal: 11},
}

// Scales returns the scale catalog.
func Scales() []Scale {
	out := make([]Scale, len(scales))
	for i, s := range scales {
		out[i] = Scale{Name: s.Name, NominalSequence: append([]int(nil), s.NominalSequence...)}
	}
	return out
}

// Modes returns the mode catalog.
func Modes() []Mode {
	return append([]Mode(nil), modes...)
}

// DisplayOption is the direction a resolved sequence is presented in.
type DisplayOption uint8

const (
	Ascending DisplayOption = iota
	Descending
	AscendingAndDescending
)

var displayNames = [...]string{"Ascending", "Descending", "Ascending and Descending"}

func (d DisplayOption) String() string {
	if int(d) < len(displayNames) {
		return displayNames[d]
	}
	return fmt.Sprintf("DisplayOption(%d)", d)
}

// MarshalText implements encoding.TextMarshaler.
func (d DisplayOption) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DisplayOption) UnmarshalText(text []byte) error {
	for i, name := range displayNames {
		if strings.EqualFold(string(text), name) {
			*d = DisplayOption(i)
			return nil
		}
	}
	return fmt.Errorf("unknown display option %q", text)
}

// DisplayOptions returns every display option in presentation order.
func DisplayOptions() []DisplayOption {
	return []DisplayOption{Ascending, Descending, AscendingAndDescending}
}
