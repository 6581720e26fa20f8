package keysig

// root is one position on the circle of fifths together with its relative
// minor.
type root struct {
	major       string
	majorRoot   int
	minor       string
	minorRoot   int
	rootKeyName string
	kind        Kind
	accidentals string
}

// circle lists the roots in canonical order. Sharps are added F C G D A E B,
// flats B E A D G C F.
var circle = []root{
	{"C", 0, "a", 9, "C", None, "nnnnnnn"},
	{"G", 7, "e", 4, "G", Sharps, "#nnnnnn"},
	{"D", 2, "b", 11, "D", Sharps, "##nnnnn"},
	{"A", 9, "f♯", 6, "A", Sharps, "###nnnn"},
	{"E", 4, "c♯", 1, "E", Sharps, "####nnn"},
	{"B", 11, "g♯", 8, "B", Sharps, "#####nn"},
	{"F♯", 6, "d♯", 3, "F#", Sharps, "######n"},
	{"C♯", 1, "a♯", 10, "C#", Sharps, "#######"},
	{"C♭", 11, "a♭", 8, "Cb", Flats, "bbbbbbb"},
	{"G♭", 6, "e♭", 3, "Gb", Flats, "nbbbbbb"},
	{"D♭", 1, "b♭", 10, "Db", Flats, "nnbbbbb"},
	{"A♭", 8, "f", 5, "Ab", Flats, "nnnbbbb"},
	{"E♭", 3, "c", 0, "Eb", Flats, "nnnnbbb"},
	{"B♭", 10, "g", 7, "Bb", Flats, "nnnnnbb"},
	{"F", 5, "d", 2, "F", Flats, "nnnnnnb"},
}

// Roots returns the root key names in canonical order.
func Roots() []string {
	out := make([]string, len(circle))
	for i, r := range circle {
		out[i] = r.rootKeyName
	}
	return out
}

// GenerateAll builds the full catalog: for every root, the major key then
// its natural, harmonic and melodic relative minors.
func GenerateAll() []KeySignature {
	keys := make([]KeySignature, 0, len(circle)*4)
	for _, r := range circle {
		p := MustParsePattern(r.accidentals)
		keys = append(keys,
			Generate(r.major, r.majorRoot, Major, r.rootKeyName, r.kind, p),
			Generate(r.minor+" natural", r.minorRoot, NaturalMinor, r.rootKeyName, r.kind, p),
			Generate(r.minor+" harmonic", r.minorRoot, HarmonicMinor, r.rootKeyName, r.kind, p),
			Generate(r.minor+" melodic", r.minorRoot, MelodicMinor, r.rootKeyName, r.kind, p),
		)
	}
	return keys
}
