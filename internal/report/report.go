// Package report renders catalogs and resolved selections for the command
// line as text tables, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/starford/tessitura/internal/engine"
)

// Format is an output format.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{Text, JSON, YAML}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Write renders v in format f.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case Text:
		return writeText(w, v)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

func writeText(w io.Writer, v any) error {
	switch v := v.(type) {
	case *engine.Result:
		return resultText(w, v)
	case []engine.KeyView:
		return table(w, []string{"NAME", "KIND", "TYPE", "ROOT", "ACCIDENTALS", "ASCENDING"}, len(v), func(i int) []any {
			k := v[i]
			return []any{k.Name, k.Kind, k.ScaleType, k.Root, k.Accidentals, ints(k.Ascending)}
		})
	case []engine.NoteView:
		return table(w, []string{"VALUE", "OCTAVE", "NAMES"}, len(v), func(i int) []any {
			n := v[i]
			return []any{n.Value, n.Octave, strings.Join(n.Names, " ")}
		})
	case []engine.InstrumentView:
		return table(w, []string{"NAME", "LOW", "HIGH", "CLEF", "PITCH", "SHIFT"}, len(v), func(i int) []any {
			inst := v[i]
			return []any{inst.Name, first(inst.Low.Names), first(inst.High.Names), clef(inst), inst.Pitch, inst.OctaveShift}
		})
	case []engine.ScaleView:
		return table(w, []string{"NAME", "SEQUENCE"}, len(v), func(i int) []any {
			return []any{v[i].Name, ints(v[i].Sequence)}
		})
	case []string:
		for _, s := range v {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("no text rendering for %T", v)
	}
}

func resultText(w io.Writer, r *engine.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Instrument:\t%s\n", r.Instrument)
	fmt.Fprintf(tw, "Key:\t%s\n", r.Key)
	fmt.Fprintf(tw, "Pattern:\t%s\n", r.Pattern)
	fmt.Fprintf(tw, "Pitch:\t%s\n", r.Pitch)
	fmt.Fprintf(tw, "Display:\t%s\n", r.Display)
	fmt.Fprintf(tw, "Clef:\t%s\n", clefName(r.Clef.Name, r.Clef.Annotation))
	notes := strings.Join(r.Names(), " ")
	if notes == "" {
		notes = "(none in range)"
	}
	fmt.Fprintf(tw, "Notes:\t%s\n", notes)
	if r.Dropped > 0 {
		fmt.Fprintf(tw, "Dropped:\t%d out of range\n", r.Dropped)
	}
	return tw.Flush()
}

func table(w io.Writer, header []string, n int, row func(int) []any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i := range n {
		cells := row(i)
		parts := make([]string, len(cells))
		for j, c := range cells {
			parts[j] = fmt.Sprint(c)
		}
		fmt.Fprintln(tw, strings.Join(parts, "\t"))
	}
	return tw.Flush()
}

func ints(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " ")
}

func first(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func clef(inst engine.InstrumentView) string {
	return clefName(inst.Clef.Name, inst.Clef.Annotation)
}

func clefName(name, annotation string) string {
	if annotation == "" {
		return name
	}
	return name + " " + annotation
}
