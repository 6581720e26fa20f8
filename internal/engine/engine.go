// Package engine assembles the keyboard, key signature, scale, mode and
// instrument catalogs and answers name lookups and note resolution against
// them. An Engine is immutable after New and safe for concurrent use.
package engine

import (
	"fmt"
	"strings"

	"github.com/starford/tessitura/internal/apperr"
	"github.com/starford/tessitura/internal/instrument"
	"github.com/starford/tessitura/internal/keysig"
	"github.com/starford/tessitura/internal/names"
	"github.com/starford/tessitura/internal/pitch"
	"github.com/starford/tessitura/internal/scale"
)

// Lookup fields, as reported in NotFound errors.
const (
	FieldInstrument = "instrument"
	FieldKey        = "key"
	FieldScale      = "scale"
	FieldMode       = "mode"
	FieldPitch      = "pitch"
	FieldDisplay    = "display"
	FieldNote       = "note"
)

// Pitch selects whether notes are shown as they sound or as the instrument
// reads them.
type Pitch uint8

const (
	Concert Pitch = iota
	InstrumentPitch
)

func (p Pitch) String() string {
	if p == InstrumentPitch {
		return "Instrument"
	}
	return "Concert"
}

// MarshalText implements encoding.TextMarshaler.
func (p Pitch) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pitch) UnmarshalText(text []byte) error {
	switch {
	case strings.EqualFold(string(text), Concert.String()):
		*p = Concert
	case strings.EqualFold(string(text), InstrumentPitch.String()):
		*p = InstrumentPitch
	default:
		return fmt.Errorf("unknown pitch %q", text)
	}
	return nil
}

// index is a name-keyed view over a catalog slice.
type index[T any] struct {
	field string
	items []T
	byKey map[string]int
}

func newIndex[T any](field string, items []T, name func(T) string) (index[T], error) {
	ix := index[T]{field: field, items: items, byKey: make(map[string]int, len(items))}
	for i, item := range items {
		key := names.Key(name(item))
		if _, dup := ix.byKey[key]; dup {
			return ix, fmt.Errorf("%s catalog: duplicate name %q", field, name(item))
		}
		ix.byKey[key] = i
	}
	return ix, nil
}

func (ix index[T]) find(name string) (T, error) {
	i, ok := ix.byKey[names.Key(name)]
	if !ok {
		var zero T
		return zero, apperr.NotFound(ix.field, name)
	}
	return ix.items[i], nil
}

func (ix index[T]) all() []T {
	return append([]T(nil), ix.items...)
}

// Engine holds the generated catalogs.
type Engine struct {
	keyboard    pitch.Keyboard
	keys        index[keysig.KeySignature]
	instruments index[instrument.Instrument]
	scales      index[scale.Scale]
	modes       index[scale.Mode]
	pitches     index[Pitch]
	displays    index[scale.DisplayOption]
}

// New generates every catalog. It fails only if the static tables break
// one of their invariants.
func New() (*Engine, error) {
	e := &Engine{keyboard: pitch.GenerateKeyboard()}

	keys := keysig.GenerateAll()
	insts, err := instrument.Catalog(keys)
	if err != nil {
		return nil, err
	}

	if e.keys, err = newIndex(FieldKey, keys, func(k keysig.KeySignature) string { return k.Name }); err != nil {
		return nil, err
	}
	if e.instruments, err = newIndex(FieldInstrument, insts, func(i instrument.Instrument) string { return i.Name }); err != nil {
		return nil, err
	}
	if e.scales, err = newIndex(FieldScale, scale.Scales(), func(s scale.Scale) string { return s.Name }); err != nil {
		return nil, err
	}
	if e.modes, err = newIndex(FieldMode, scale.Modes(), func(m scale.Mode) string { return m.Name }); err != nil {
		return nil, err
	}
	if e.pitches, err = newIndex(FieldPitch, []Pitch{Concert, InstrumentPitch}, Pitch.String); err != nil {
		return nil, err
	}
	if e.displays, err = newIndex(FieldDisplay, scale.DisplayOptions(), scale.DisplayOption.String); err != nil {
		return nil, err
	}
	return e, nil
}

// Keyboard returns the note table.
func (e *Engine) Keyboard() pitch.Keyboard { return e.keyboard }

// KeySignatures returns the key signature catalog in circle-of-fifths order.
func (e *Engine) KeySignatures() []keysig.KeySignature { return e.keys.all() }

// Instruments returns the instrument registry.
func (e *Engine) Instruments() []instrument.Instrument { return e.instruments.all() }

// Scales returns the scale catalog.
func (e *Engine) Scales() []scale.Scale { return scale.Scales() }

// Modes returns the mode catalog.
func (e *Engine) Modes() []scale.Mode { return e.modes.all() }

// Pitches returns the pitch conventions.
func (e *Engine) Pitches() []Pitch { return e.pitches.all() }

// DisplayOptions returns the display options.
func (e *Engine) DisplayOptions() []scale.DisplayOption { return e.displays.all() }

// Instrument looks up an instrument by name.
func (e *Engine) Instrument(name string) (instrument.Instrument, error) {
	return e.instruments.find(name)
}

// KeySignature looks up a key signature by name ("F♯", "e♭ harmonic").
func (e *Engine) KeySignature(name string) (keysig.KeySignature, error) {
	return e.keys.find(name)
}

// Scale looks up a scale by name.
func (e *Engine) Scale(name string) (scale.Scale, error) {
	s, err := e.scales.find(name)
	if err != nil {
		return s, err
	}
	s.NominalSequence = append([]int(nil), s.NominalSequence...)
	return s, nil
}

// Mode looks up a mode by name.
func (e *Engine) Mode(name string) (scale.Mode, error) {
	return e.modes.find(name)
}

// Pitch looks up a pitch convention by name.
func (e *Engine) Pitch(name string) (Pitch, error) {
	return e.pitches.find(name)
}

// DisplayOption looks up a display option by name.
func (e *Engine) DisplayOption(name string) (scale.DisplayOption, error) {
	return e.displays.find(name)
}

// Note looks up a keyboard note by octave-qualified name.
func (e *Engine) Note(name string) (pitch.KeyboardNote, error) {
	return e.keyboard.Find(name)
}
