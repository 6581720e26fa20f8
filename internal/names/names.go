// Package names normalises catalog names so lookups tolerate case, Unicode
// composition and ASCII accidentals ("Bb", "f#") in place of ♭ and ♯.
package names

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Key returns the lookup key for name. Two names that differ only in case,
// surrounding or repeated whitespace, Unicode normal form, or in spelling an
// accidental as '#'/'b' instead of '♯'/'♭' produce the same key.
func Key(name string) string {
	s := norm.NFC.String(strings.Join(strings.Fields(name), " "))
	s = folder.String(s)
	s = strings.ReplaceAll(s, "#", "♯")

	// A 'b' directly after a leading note letter is a flat: "bb", "eb minor".
	if len(s) >= 2 && isNoteLetter(s[0]) && s[1] == 'b' && (len(s) == 2 || s[2] == ' ' || s[2] == '/') {
		s = s[:1] + "♭" + s[2:]
	}
	return s
}

func isNoteLetter(c byte) bool {
	return c >= 'a' && c <= 'g'
}
