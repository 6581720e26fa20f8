package mcpserver

// Glossary explains the vocabulary the tools accept and return, so that an
// LLM consumer can build valid selections without trial and error.
const Glossary = `# Tessitura Glossary

## Names

- **Key signature**: a major key named by its tonic ("C", "F♯", "B♭") or a
  minor variant named "<tonic> natural|harmonic|melodic" in lower case
  ("a natural", "e♭ harmonic"). Fifteen roots on the circle of fifths, four
  variants each.
- **Note**: a keyboard note written "<spelling>/<octave>", e.g. "C/4",
  "F#/5", "Cb/5". Octaves run 1 to 7; C/1 is value 0 and B/7 is value 83.
  Cb is labelled with the octave above the B it sounds as.
- **Scale**: Diatonic, Pentatonic, Thirds, Fourths, Fifths, Chromatic.
- **Mode**: Ionian (major), Dorian, Phrygian, Lydian, Mixolydian,
  Aeolian (natural minor), Locrian. A mode starts on a degree of the key's
  relative major.
- **Pitch**: "Concert" shows sounding pitch; "Instrument" shows written
  pitch with the instrument's transposition and octave shift applied.
- **Display**: "Ascending", "Descending" or "Ascending and Descending".

Lookups ignore case and accept "#" for ♯ and "b" for ♭ after the letter.

## Selections

A selection names an instrument, a key, a pitch and a display, plus at most
one of a scale or a mode. With neither, the key signature's own pattern is
used, including the melodic minor's natural descent. An optional octave
(1-7) fixes the octave of the first note; otherwise it is the lowest tonic
the instrument can play.

Notes outside the instrument's range are dropped and counted. A selection
whose every note is out of range resolves to an empty list, not an error.

## Errors

Unknown names are reported as "<field> error - <value> not found", where
field is one of instrument, key, scale, mode, pitch, display or note.
`
