package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/starford/tessitura/internal/engine"
	"github.com/starford/tessitura/internal/testutil"
)

func resolve(t *testing.T, sel engine.Selection) *engine.Result {
	t.Helper()
	res, err := testutil.Engine(t).Resolve(sel)
	require.NoError(t, err)
	return res
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWrite_ResultText(t *testing.T) {
	res := resolve(t, engine.Selection{
		Instrument: "Soprano Recorder", Key: "D", Scale: "Thirds", Pitch: "Concert", Display: "Ascending",
	})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Text, res))
	out := buf.String()
	assert.Contains(t, out, "Instrument:  Soprano Recorder\n")
	assert.Contains(t, out, "Clef:        treble 8va\n")
	assert.Contains(t, out, "Notes:       D/4 F#/4 A/4 C#/5\n")
	assert.NotContains(t, out, "Dropped")
}

func TestWrite_EmptyResultText(t *testing.T) {
	res := resolve(t, engine.Selection{
		Instrument: "Bass Recorder", Key: "C", Scale: "Fifths", Pitch: "Concert", Display: "Ascending", Octave: 7,
	})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Text, res))
	assert.Contains(t, buf.String(), "(none in range)")
	assert.Contains(t, buf.String(), "2 out of range")
}

func TestWrite_ResultJSONAndYAML(t *testing.T) {
	res := resolve(t, engine.Selection{
		Instrument: "Concert Flute", Key: "C", Scale: "Fourths", Pitch: "Concert", Display: "Ascending",
	})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, res))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Concert", decoded["pitch"])
	assert.Equal(t, "Ascending", decoded["display"])

	buf.Reset()
	require.NoError(t, Write(&buf, YAML, res))
	var y struct {
		Pitch string        `yaml:"pitch"`
		Notes []engine.Note `yaml:"notes"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	assert.Equal(t, "Concert", y.Pitch)
	assert.Equal(t, []engine.Note{{Value: 36, Name: "C/4"}, {Value: 41, Name: "F/4"}}, y.Notes)
}

func TestWrite_Tables(t *testing.T) {
	e := testutil.Engine(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Text, e.KeysView()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 61)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "0 2 4 5 7 9 11")

	buf.Reset()
	require.NoError(t, Write(&buf, Text, e.KeyboardView()))
	assert.Contains(t, buf.String(), "B/1 Cb/2")

	buf.Reset()
	require.NoError(t, Write(&buf, Text, e.InstrumentsView()))
	assert.Contains(t, buf.String(), "bass 8vb")

	buf.Reset()
	require.NoError(t, Write(&buf, Text, e.ModesView()))
	assert.Contains(t, buf.String(), "Dorian")

	buf.Reset()
	require.NoError(t, Write(&buf, Text, e.PitchNames()))
	assert.Equal(t, "Concert\nInstrument\n", buf.String())
}

func TestWrite_UnsupportedText(t *testing.T) {
	err := Write(&bytes.Buffer{}, Text, 42)
	assert.Error(t, err)

	err = Write(&bytes.Buffer{}, Format("xml"), 42)
	assert.Error(t, err)
}
