package transcript

import "strings"

// stripper removes whitespace and both stress marks. It runs before any
// other rewrite.
var stripper = strings.NewReplacer(
	"\n", "",
	"\t", "",
	" ", "",
	"ˈ", "",
	"ˌ", "",
)

// diphthongs is applied in order; each entry is a global replacement.
var diphthongs = []struct{ from, to string }{
	{"aj", "Y"},
	{"ej", "E"},
	{"ow", "O"},
	{"aw", "W"},
	{"ɔj", "Ø"},
}

// rhotacized schwa is spelled out as ɜ + ɹ so it never competes with ʌɹ.
const (
	rhotacizedSchwa = "ɚ"
	rhoticSequence  = "ɜɹ"
)

// StripStress removes whitespace and both stress marks from a raw
// dictionary transcription.
func StripStress(raw string) string {
	return stripper.Replace(raw)
}

// Normalize turns a raw transcription into one symbol per phoneme: it
// strips whitespace and stress, folds two-symbol diphthongs into their
// reserved symbols and expands the rhotacized schwa. Normalize is
// idempotent.
func Normalize(raw string) string {
	s := StripStress(raw)
	for _, d := range diphthongs {
		s = strings.ReplaceAll(s, d.from, d.to)
	}
	return strings.ReplaceAll(s, rhotacizedSchwa, rhoticSequence)
}
