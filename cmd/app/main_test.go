package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	err := app.Run(context.Background(), append([]string{"tessitura"}, args...))
	return buf.String(), err
}

func TestResolve_DefaultsJSON(t *testing.T) {
	out, err := run(t, "resolve", "--format", "json")
	require.NoError(t, err)

	var res struct {
		Instrument string `json:"instrument"`
		Key        string `json:"key"`
		Notes      []struct {
			Value int    `json:"value"`
			Name  string `json:"name"`
		} `json:"notes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Concert Flute", res.Instrument)
	assert.Equal(t, "C", res.Key)

	var names []string
	for _, n := range res.Notes {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"C/4", "D/4", "E/4", "F/4", "G/4", "A/4", "B/4"}, names)
}

func TestResolve_Text(t *testing.T) {
	out, err := run(t, "resolve", "-i", "Soprano Recorder", "-k", "D", "-s", "Thirds")
	require.NoError(t, err)
	assert.Contains(t, out, "Notes:       D/4 F#/4 A/4 C#/5\n")
}

func TestResolve_Errors(t *testing.T) {
	_, err := run(t, "resolve", "-i", "Kazoo")
	require.Error(t, err)
	assert.Equal(t, "instrument error - Kazoo not found", err.Error())

	_, err = run(t, "resolve", "-s", "Diatonic", "-m", "Dorian")
	assert.Error(t, err)

	_, err = run(t, "resolve", "--format", "xml")
	assert.Error(t, err)
}

func TestCatalogCommands(t *testing.T) {
	out, err := run(t, "keys", "a harmonic")
	require.NoError(t, err)
	assert.Contains(t, out, "a harmonic")
	assert.Contains(t, out, "NAME")

	out, err = run(t, "keyboard", "--format", "json")
	require.NoError(t, err)
	var notes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &notes))
	assert.Len(t, notes, 84)

	out, err = run(t, "modes", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Dorian")

	_, err = run(t, "instruments", "Kazoo")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "--config", filepath.Join(dir, "missing.yaml"), "keys")
	assert.Error(t, err, "an explicit config path must exist")

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  instrument: Violin\n  key: G\n  pitch: Concert\n  display: Ascending\n"), 0o644))
	out, err := run(t, "-c", path, "resolve", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"instrument": "Violin"`)
	assert.Contains(t, out, `"key": "G"`)
}
