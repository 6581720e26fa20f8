package engine

import (
	"github.com/starford/tessitura/internal/instrument"
	"github.com/starford/tessitura/internal/keysig"
	"github.com/starford/tessitura/internal/pitch"
	"github.com/starford/tessitura/internal/scale"
)

// NoteView is the serialisable form of a keyboard note.
type NoteView struct {
	Value      int      `json:"value" yaml:"value"`
	Octave     int      `json:"octave" yaml:"octave"`
	PitchClass int      `json:"pitch_class" yaml:"pitch_class"`
	Names      []string `json:"names" yaml:"names"`
}

// KeyView is the serialisable form of a key signature.
type KeyView struct {
	Name         string           `json:"name" yaml:"name"`
	Kind         keysig.Kind      `json:"kind" yaml:"kind"`
	ScaleType    keysig.ScaleType `json:"scale_type" yaml:"scale_type"`
	Root         int              `json:"root" yaml:"root"`
	RootKeyName  string           `json:"root_key_name" yaml:"root_key_name"`
	Ascending    []int            `json:"ascending" yaml:"ascending,flow"`
	Descending   []int            `json:"descending" yaml:"descending,flow"`
	PitchClasses []int            `json:"pitch_classes" yaml:"pitch_classes,flow"`
	Accidentals  string           `json:"accidentals" yaml:"accidentals"`
}

// InstrumentView is the serialisable form of an instrument.
type InstrumentView struct {
	Name          string          `json:"name" yaml:"name"`
	Low           NoteView        `json:"low" yaml:"low"`
	High          NoteView        `json:"high" yaml:"high"`
	Pitch         string          `json:"pitch" yaml:"pitch"`
	Transposition int             `json:"transposition" yaml:"transposition"`
	Clef          instrument.Clef `json:"clef" yaml:"clef"`
	OctaveShift   int             `json:"octave_shift" yaml:"octave_shift"`
}

// ScaleView is the serialisable form of a scale or mode.
type ScaleView struct {
	Name     string `json:"name" yaml:"name"`
	Nominal  *int   `json:"nominal,omitempty" yaml:"nominal,omitempty"`
	Sequence []int  `json:"sequence" yaml:"sequence,flow"`
}

// ViewNote converts a keyboard note.
func ViewNote(n pitch.KeyboardNote) NoteView {
	return NoteView{Value: n.Value, Octave: n.Octave, PitchClass: n.PitchClass, Names: n.Names()}
}

// ViewKey converts a key signature.
func ViewKey(k keysig.KeySignature) KeyView {
	pcs := k.PitchClasses()
	return KeyView{
		Name:         k.Name,
		Kind:         k.Kind,
		ScaleType:    k.ScaleType,
		Root:         k.Root,
		RootKeyName:  k.RootKeyName,
		Ascending:    append([]int(nil), k.Ascending[:]...),
		Descending:   append([]int(nil), k.Descending[:]...),
		PitchClasses: pcs[:],
		Accidentals:  k.Accidentals.String(),
	}
}

// ViewScale converts a scale.
func ViewScale(s scale.Scale) ScaleView {
	return ScaleView{Name: s.Name, Sequence: s.Sequence().Ascending}
}

// ViewMode converts a mode, listing its rotated sequence.
func ViewMode(m scale.Mode) ScaleView {
	nominal := m.Nominal
	return ScaleView{Name: m.Name, Nominal: &nominal, Sequence: m.Sequence().Ascending}
}

// ViewInstrument converts an instrument, naming its range ends.
func (e *Engine) ViewInstrument(i instrument.Instrument) InstrumentView {
	low, _ := e.keyboard.Note(i.Low)
	high, _ := e.keyboard.Note(i.High)
	return InstrumentView{
		Name:          i.Name,
		Low:           ViewNote(low),
		High:          ViewNote(high),
		Pitch:         i.Pitch.Name,
		Transposition: i.Transposition(),
		Clef:          i.Clef,
		OctaveShift:   i.OctaveShift,
	}
}

// KeyboardView lists every keyboard note.
func (e *Engine) KeyboardView() []NoteView {
	notes := e.keyboard.Notes()
	out := make([]NoteView, len(notes))
	for i, n := range notes {
		out[i] = ViewNote(n)
	}
	return out
}

// KeysView lists every key signature.
func (e *Engine) KeysView() []KeyView {
	keys := e.KeySignatures()
	out := make([]KeyView, len(keys))
	for i, k := range keys {
		out[i] = ViewKey(k)
	}
	return out
}

// InstrumentsView lists every instrument.
func (e *Engine) InstrumentsView() []InstrumentView {
	insts := e.Instruments()
	out := make([]InstrumentView, len(insts))
	for i, inst := range insts {
		out[i] = e.ViewInstrument(inst)
	}
	return out
}

// ScalesView lists every scale.
func (e *Engine) ScalesView() []ScaleView {
	scales := e.Scales()
	out := make([]ScaleView, len(scales))
	for i, s := range scales {
		out[i] = ViewScale(s)
	}
	return out
}

// ModesView lists every mode.
func (e *Engine) ModesView() []ScaleView {
	modes := e.Modes()
	out := make([]ScaleView, len(modes))
	for i, m := range modes {
		out[i] = ViewMode(m)
	}
	return out
}

// PitchNames lists the pitch conventions by name.
func (e *Engine) PitchNames() []string {
	pitches := e.Pitches()
	out := make([]string, len(pitches))
	for i, p := range pitches {
		out[i] = p.String()
	}
	return out
}

// DisplayNames lists the display options by name.
func (e *Engine) DisplayNames() []string {
	opts := e.DisplayOptions()
	out := make([]string, len(opts))
	for i, d := range opts {
		out[i] = d.String()
	}
	return out
}
