// Package pitch defines the 12 chromatic pitch classes with their enharmonic
// spellings and expands them into the 84-note, 7-octave keyboard.
package pitch

import (
	"fmt"
	"strings"
)

// Accidental is the alteration carried by a spelling.
type Accidental uint8

const (
	Natural Accidental = iota
	Flat
	Sharp
)

// Symbol returns the ASCII suffix used in note names: "", "b" or "#".
func (a Accidental) Symbol() string {
	switch a {
	case Flat:
		return "b"
	case Sharp:
		return "#"
	default:
		return ""
	}
}

// Code returns the single-character code used in accidental patterns.
func (a Accidental) Code() byte {
	switch a {
	case Flat:
		return 'b'
	case Sharp:
		return '#'
	default:
		return 'n'
	}
}

func (a Accidental) String() string {
	switch a {
	case Flat:
		return "flat"
	case Sharp:
		return "sharp"
	default:
		return "natural"
	}
}

// ParseAccidentalCode is the inverse of Code.
func ParseAccidentalCode(c byte) (Accidental, error) {
	switch c {
	case 'n':
		return Natural, nil
	case 'b':
		return Flat, nil
	case '#':
		return Sharp, nil
	}
	return Natural, fmt.Errorf("unknown accidental code %q", c)
}

// Spelling is a letter name plus accidental, e.g. C#, Db, E.
type Spelling struct {
	Letter     byte
	Accidental Accidental
}

func (s Spelling) String() string {
	return string(s.Letter) + s.Accidental.Symbol()
}

// ParseSpelling parses "C", "Db", "F#", "G♭" or "A♯".
func ParseSpelling(s string) (Spelling, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spelling{}, fmt.Errorf("empty spelling")
	}
	letter := s[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'G' {
		return Spelling{}, fmt.Errorf("invalid note letter in %q", s)
	}
	switch rest := s[1:]; rest {
	case "":
		return Spelling{Letter: letter, Accidental: Natural}, nil
	case "b", "♭":
		return Spelling{Letter: letter, Accidental: Flat}, nil
	case "#", "♯":
		return Spelling{Letter: letter, Accidental: Sharp}, nil
	}
	return Spelling{}, fmt.Errorf("invalid accidental in %q", s)
}

// SpellingSet holds the natural, flat and sharp spellings of one pitch class.
// It can only be built with at least one spelling.
type SpellingSet struct {
	spellings [3]Spelling
	present   [3]bool
}

func newSpellingSet(first Spelling, rest ...Spelling) SpellingSet {
	var set SpellingSet
	for _, s := range append([]Spelling{first}, rest...) {
		set.spellings[s.Accidental] = s
		set.present[s.Accidental] = true
	}
	return set
}

// Get returns the spelling with accidental a, if the pitch class has one.
func (s SpellingSet) Get(a Accidental) (Spelling, bool) {
	return s.spellings[a], s.present[a]
}

// All returns the defined spellings in natural, flat, sharp order.
func (s SpellingSet) All() []Spelling {
	out := make([]Spelling, 0, 3)
	for a := Natural; a <= Sharp; a++ {
		if s.present[a] {
			out = append(out, s.spellings[a])
		}
	}
	return out
}

// WithLetter returns the spelling whose letter is letter.
func (s SpellingSet) WithLetter(letter byte) (Spelling, bool) {
	for a := Natural; a <= Sharp; a++ {
		if s.present[a] && s.spellings[a].Letter == letter {
			return s.spellings[a], true
		}
	}
	return Spelling{}, false
}

// PitchClass is one of the 12 chromatic tones, 0 = C through 11 = B.
type PitchClass struct {
	Value     int
	Spellings SpellingSet
}

func sp(letter byte, a Accidental) Spelling {
	return Spelling{Letter: letter, Accidental: a}
}

var pitchClasses = [12]PitchClass{
	{0, newSpellingSet(sp('C', Natural))},
	{1, newSpellingSet(sp('D', Flat), sp('C', Sharp))},
	{2, newSpellingSet(sp('D', Natural))},
	{3, newSpellingSet(sp('E', Flat), sp('D', Sharp))},
	{4, newSpellingSet(sp('E', Natural))},
	{5, newSpellingSet(sp('F', Natural), sp('E', Sharp))},
	{6, newSpellingSet(sp('G', Flat), sp('F', Sharp))},
	{7, newSpellingSet(sp('G', Natural))},
	{8, newSpellingSet(sp('A', Flat), sp('G', Sharp))},
	{9, newSpellingSet(sp('A', Natural))},
	{10, newSpellingSet(sp('B', Flat), sp('A', Sharp))},
	{11, newSpellingSet(sp('B', Natural), sp('C', Flat))},
}

// PitchClasses returns the fixed table of the 12 pitch classes.
func PitchClasses() [12]PitchClass {
	return pitchClasses
}

// Class returns the pitch class of an absolute note value.
func Class(value int) int {
	return ((value % 12) + 12) % 12
}
