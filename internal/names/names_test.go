package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"Concert Flute", "concert  flute"},
		{"F♯", "f#"},
		{"B♭", "Bb"},
		{"e♭ harmonic", "Eb Harmonic"},
		{"Cb/5", "C♭/5"},
		{"Aeolian (natural minor)", " aeolian (NATURAL minor) "},
	}
	for _, tt := range tests {
		t.Run(tt.a, func(t *testing.T) {
			assert.Equal(t, Key(tt.a), Key(tt.b))
		})
	}
}

func TestKey_KeepsDistinctNames(t *testing.T) {
	assert.NotEqual(t, Key("b natural"), Key("b♭ natural"))
	assert.NotEqual(t, Key("B"), Key("Bb"))
	assert.NotEqual(t, Key("Bassoon"), Key("B♭assoon"))
	assert.Equal(t, "bassoon", Key("Bassoon"))
}
