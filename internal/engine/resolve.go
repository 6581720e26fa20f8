package engine

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tessitura/internal/apperr"
	"github.com/starford/tessitura/internal/instrument"
	"github.com/starford/tessitura/internal/keysig"
	"github.com/starford/tessitura/internal/pitch"
	"github.com/starford/tessitura/internal/scale"
)

// Selection names everything needed to produce a note sequence. Scale and
// Mode are alternatives; leaving both empty resolves the key signature's
// own scale. Octave, when non-zero, fixes the octave of the root instead of
// starting from the lowest playable tonic.
type Selection struct {
	Instrument string `json:"instrument" yaml:"instrument"`
	Key        string `json:"key" yaml:"key"`
	Scale      string `json:"scale,omitempty" yaml:"scale,omitempty"`
	Mode       string `json:"mode,omitempty" yaml:"mode,omitempty"`
	Pitch      string `json:"pitch" yaml:"pitch"`
	Display    string `json:"display" yaml:"display"`
	Octave     int    `json:"octave,omitempty" yaml:"octave,omitempty"`
}

// Validate checks the shape of the selection. Names are checked by Resolve.
func (s Selection) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Mode, validation.When(s.Scale != "", validation.Empty.Error("cannot be combined with a scale"))),
		validation.Field(&s.Octave, validation.Min(1), validation.Max(pitch.Octaves)),
	)
}

// CacheKey returns a stable identity for the selection.
func (s Selection) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%d", s.Instrument, s.Key, s.Scale, s.Mode, s.Pitch, s.Display, s.Octave)
}

// Note is one resolved note.
type Note struct {
	Value int    `json:"value" yaml:"value"`
	Name  string `json:"name" yaml:"name"`
}

// Result is a resolved selection.
type Result struct {
	Instrument string              `json:"instrument" yaml:"instrument"`
	Key        string              `json:"key" yaml:"key"`
	Pattern    string              `json:"pattern" yaml:"pattern"`
	Pitch      Pitch               `json:"pitch" yaml:"pitch"`
	Display    scale.DisplayOption `json:"display" yaml:"display"`
	Clef       instrument.Clef     `json:"clef" yaml:"clef"`
	Range      scale.Range         `json:"range" yaml:"range"`
	Root       int                 `json:"root" yaml:"root"`
	Notes      []Note              `json:"notes" yaml:"notes"`
	Dropped    int                 `json:"dropped" yaml:"dropped"`
}

// Names returns the note names in order.
func (r *Result) Names() []string {
	out := make([]string, len(r.Notes))
	for i, n := range r.Notes {
		out[i] = n.Name
	}
	return out
}

// Values returns the absolute note values in order.
func (r *Result) Values() []int {
	out := make([]int, len(r.Notes))
	for i, n := range r.Notes {
		out[i] = n.Value
	}
	return out
}

// Resolve turns a fully named selection into a range-bounded note sequence.
//
// Values in the result are written pitch: with the Instrument convention the
// instrument's transposition is applied to the range, the tonic and the key
// used for spelling, and names carry the instrument's octave shift. Notes
// outside the playable range are dropped; a result may be empty.
func (e *Engine) Resolve(sel Selection) (*Result, error) {
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalid, err)
	}

	inst, err := e.Instrument(sel.Instrument)
	if err != nil {
		return nil, err
	}
	key, err := e.KeySignature(sel.Key)
	if err != nil {
		return nil, err
	}
	conv, err := e.Pitch(sel.Pitch)
	if err != nil {
		return nil, err
	}
	display, err := e.DisplayOption(sel.Display)
	if err != nil {
		return nil, err
	}

	var (
		seq     scale.Sequence
		tonic   = key.Root
		pattern = key.Name
	)
	switch {
	case sel.Mode != "":
		m, err := e.Mode(sel.Mode)
		if err != nil {
			return nil, err
		}
		// Modes are degrees of the major scale sharing the key's signature.
		key = e.majorOf(key)
		seq = m.Sequence()
		tonic = key.Root + m.Nominal
		pattern = m.Name
	case sel.Scale != "":
		s, err := e.Scale(sel.Scale)
		if err != nil {
			return nil, err
		}
		seq = s.Sequence()
		pattern = s.Name
	default:
		seq = scale.KeySequence(key)
	}

	shift, transpose := 0, 0
	spellKey := key
	if conv == InstrumentPitch {
		transpose = inst.Transposition()
		shift = inst.OctaveShift
		spellKey = e.transposeKey(key, transpose)
	}
	r := inst.Range().Shift(transpose).Intersect(scale.Unbounded)

	root := e.root(pitch.Class(tonic+transpose), sel.Octave, r)
	values, dropped := scale.Resolve(seq, root, display, r)

	res := &Result{
		Instrument: inst.Name,
		Key:        spellKey.Name,
		Pattern:    pattern,
		Pitch:      conv,
		Display:    display,
		Clef:       inst.Clef,
		Range:      r,
		Root:       root,
		Notes:      make([]Note, 0, len(values)),
		Dropped:    dropped,
	}
	for _, v := range values {
		n, err := e.keyboard.Note(v)
		if err != nil {
			// Values are clipped to the keyboard above.
			return nil, fmt.Errorf("resolve: %w", err)
		}
		res.Notes = append(res.Notes, Note{Value: v, Name: spellKey.Spell(n, shift)})
	}
	return res, nil
}

// root places pitch class pc in the requested octave, or at the lowest
// value in r when octave is zero. If no such value lies in r the root falls
// below the range and every note at or under it is dropped.
func (e *Engine) root(pc, octave int, r scale.Range) int {
	if octave > 0 {
		return pc + 12*(octave-1)
	}
	v := r.Low + pitch.Class(pc-r.Low)
	if v > r.High {
		return v - 12
	}
	return v
}

// majorOf returns the major key with the same signature as k.
func (e *Engine) majorOf(k keysig.KeySignature) keysig.KeySignature {
	if k.IsMajor() {
		return k
	}
	for _, c := range e.keys.items {
		if c.IsMajor() && c.RootKeyName == k.RootKeyName {
			return c
		}
	}
	return k
}

// transposeKey finds the key of the same scale type whose root is n
// semitones above k, preferring the spelling with fewer accidentals.
func (e *Engine) transposeKey(k keysig.KeySignature, n int) keysig.KeySignature {
	if n == 0 {
		return k
	}
	target := pitch.Class(k.Root + n)
	best, found := k, false
	for _, c := range e.keys.items {
		if c.ScaleType != k.ScaleType || pitch.Class(c.Root) != target {
			continue
		}
		if !found || c.Accidentals.Count() < best.Accidentals.Count() {
			best, found = c, true
		}
	}
	return best
}
