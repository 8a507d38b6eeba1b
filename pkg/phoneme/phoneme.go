// Package phoneme holds the closed IPA alphabet used by normalized
// transcriptions and the articulatory feature scales defined over it.
package phoneme

// Phoneme is a single symbol of a normalized transcription.
type Phoneme string

// Reserved single-symbol stand-ins for diphthongs. The first five are
// produced by transcript normalization; I and U are kept for sources that
// already write their diphthongs with them.
const (
	DiphthongAI Phoneme = "Y" // aj
	DiphthongEI Phoneme = "E" // ej
	DiphthongOU Phoneme = "O" // ow
	DiphthongAU Phoneme = "W" // aw
	DiphthongOI Phoneme = "Ø" // ɔj
	DiphthongI  Phoneme = "I"
	DiphthongU  Phoneme = "U"
)

// alphabet is the canonical ordering: consonants by manner then place,
// then vowels from high to low.
var alphabet = []Phoneme{
	"p", "b", "t", "d", "ʈ", "ɖ", "c", "ɟ", "k", "g", "q", "ɢ", "ʔ", "ʦ", "ʣ", "ʧ",
	"ʤ", "ɸ", "β", "f", "v", "θ", "ð", "s", "z", "ɬ", "ɮ", "ʃ", "ʒ", "ʂ", "ʐ", "ɕ",
	"ʑ", "ç", "ʝ", "ɧ", "x", "ɣ", "χ", "ʁ", "ħ", "ʕ", "h", "ɦ", "m", "ɱ", "n", "ɳ",
	"ɲ", "ŋ", "ɴ", "ʙ", "ⱱ", "ɾ", "r", "ɺ", "ɽ", "ʀ", "ʜ", "ʢ", "ʋ", "ɹ", "l", "ɻ",
	"ɭ", "j", "ɥ", "ʎ", "ɰ", "ʍ", "w", "ʟ", "i", "y", "I", "ɨ", "ʉ", "ɯ", "u", "U",
	"ɪ", "ʏ", "ʊ", "e", "ø", "E", "ɘ", "ɵ", "ɤ", "o", "O", "ɛ", "œ", "ɜ", "ɞ", "ə",
	"Ø", "ʌ", "ɔ", "æ", "ɐ", "a", "ɶ", "Y", "W", "ɑ", "ɒ",
}

var known = func() map[Phoneme]struct{} {
	m := make(map[Phoneme]struct{}, len(alphabet))
	for _, p := range alphabet {
		m[p] = struct{}{}
	}
	return m
}()

// Alphabet returns a copy of the closed alphabet in canonical order.
func Alphabet() []Phoneme {
	out := make([]Phoneme, len(alphabet))
	copy(out, alphabet)
	return out
}

// IsKnown reports whether p belongs to the closed alphabet.
func IsKnown(p Phoneme) bool {
	_, ok := known[p]
	return ok
}

// Segment splits a normalized transcription into phonemes. Every symbol of
// the alphabet is a single code point, so segmentation is per rune; symbols
// outside the alphabet are returned as-is and classify as unknown.
func Segment(transcription string) []Phoneme {
	out := make([]Phoneme, 0, len(transcription))
	for _, r := range transcription {
		out = append(out, Phoneme(r))
	}
	return out
}
