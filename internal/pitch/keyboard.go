package pitch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/tessitura/internal/apperr"
	"github.com/starford/tessitura/internal/names"
)

const (
	Octaves = 7
	// Lowest and Highest are the absolute values of the keyboard's ends.
	Lowest  = 0
	Highest = Octaves*12 - 1
)

// KeyboardNote is one absolute note of the keyboard.
type KeyboardNote struct {
	Value      int
	Octave     int
	PitchClass int
	Spellings  SpellingSet
}

// labelOctave is the octave written after spelling s. Cb names the pitch a
// semitone below the next C, so it takes the next octave's label.
func (n KeyboardNote) labelOctave(s Spelling) int {
	if n.PitchClass == 11 && s.Accidental == Flat {
		return n.Octave + 1
	}
	return n.Octave
}

// Label renders spelling s of the note with its octave moved by shift.
func (n KeyboardNote) Label(s Spelling, shift int) string {
	return fmt.Sprintf("%s/%d", s, n.labelOctave(s)+shift)
}

// Name returns the octave-qualified name for accidental a, e.g. "Cb/2".
func (n KeyboardNote) Name(a Accidental) (string, bool) {
	s, ok := n.Spellings.Get(a)
	if !ok {
		return "", false
	}
	return n.Label(s, 0), true
}

// Names returns every octave-qualified name of the note.
func (n KeyboardNote) Names() []string {
	all := n.Spellings.All()
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = n.Label(s, 0)
	}
	return out
}

// Keyboard is the generated, read-only note table.
type Keyboard struct {
	notes  []KeyboardNote
	byName map[string]int
}

// GenerateKeyboard expands the pitch classes across all octaves in
// octave-major order.
func GenerateKeyboard() Keyboard {
	kb := Keyboard{
		notes:  make([]KeyboardNote, 0, Octaves*12),
		byName: make(map[string]int, Octaves*12*2),
	}
	for octave := 1; octave <= Octaves; octave++ {
		for _, pc := range pitchClasses {
			n := KeyboardNote{
				Value:      pc.Value + 12*(octave-1),
				Octave:     octave,
				PitchClass: pc.Value,
				Spellings:  pc.Spellings,
			}
			for _, name := range n.Names() {
				kb.byName[names.Key(name)] = n.Value
			}
			kb.notes = append(kb.notes, n)
		}
	}
	return kb
}

// Notes returns a copy of the note table.
func (k Keyboard) Notes() []KeyboardNote {
	return append([]KeyboardNote(nil), k.notes...)
}

// Len returns the number of notes.
func (k Keyboard) Len() int {
	return len(k.notes)
}

// Contains reports whether value is on the keyboard.
func (k Keyboard) Contains(value int) bool {
	return value >= 0 && value < len(k.notes)
}

// Note returns the note with absolute value.
func (k Keyboard) Note(value int) (KeyboardNote, error) {
	if !k.Contains(value) {
		return KeyboardNote{}, apperr.NotFound("note", strconv.Itoa(value))
	}
	return k.notes[value], nil
}

// Find returns the note named by an octave-qualified name such as "Cb/5".
func (k Keyboard) Find(name string) (KeyboardNote, error) {
	value, ok := k.byName[names.Key(strings.TrimSpace(name))]
	if !ok {
		return KeyboardNote{}, apperr.NotFound("note", name)
	}
	return k.notes[value], nil
}
