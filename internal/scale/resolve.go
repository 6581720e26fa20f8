package scale

import (
	"slices"

	"github.com/starford/tessitura/internal/keysig"
	"github.com/starford/tessitura/internal/pitch"
)

// Sequence is a pattern of offsets from a root. Descending, when set, is
// the pattern walked on the way down, listed low to high like Ascending;
// nil means the reverse of Ascending.
type Sequence struct {
	Ascending  []int
	Descending []int
}

// KeySequence returns a key signature's own ascending and descending
// pattern, relative to its root.
func KeySequence(k keysig.KeySignature) Sequence {
	asc, desc := k.Intervals()
	return Sequence{Ascending: asc[:], Descending: desc[:]}
}

// Range is an inclusive span of absolute note values.
type Range struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Unbounded is the whole keyboard.
var Unbounded = Range{Low: pitch.Lowest, High: pitch.Highest}

// Contains reports whether v lies in r.
func (r Range) Contains(v int) bool {
	return v >= r.Low && v <= r.High
}

// Shift moves both ends of r by n semitones.
func (r Range) Shift(n int) Range {
	return Range{Low: r.Low + n, High: r.High + n}
}

// Intersect returns the overlap of r and o. The result may be empty
// (Low > High).
func (r Range) Intersect(o Range) Range {
	return Range{Low: max(r.Low, o.Low), High: min(r.High, o.High)}
}

// Resolve anchors seq at root and orders it for display. Notes outside r are
// dropped, not reported as errors; dropped counts them.
func Resolve(seq Sequence, root int, display DisplayOption, r Range) (notes []int, dropped int) {
	up := anchor(seq.Ascending, root)

	down := up
	if seq.Descending != nil {
		down = anchor(seq.Descending, root)
	}
	down = slices.Clone(down)
	slices.Reverse(down)

	var all []int
	switch display {
	case Descending:
		all = down
	case AscendingAndDescending:
		all = append(slices.Clone(up), down...)
	default:
		all = up
	}

	notes = make([]int, 0, len(all))
	for _, v := range all {
		if !r.Contains(v) {
			dropped++
			continue
		}
		notes = append(notes, v)
	}
	return notes, dropped
}

func anchor(offsets []int, root int) []int {
	out := make([]int, len(offsets))
	for i, o := range offsets {
		out[i] = root + o
	}
	return out
}
