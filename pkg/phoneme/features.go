package phoneme

import "strconv"

// Unattested is the numeric value a ranked scale takes in tabular output
// for a symbol outside the alphabet.
const Unattested = -10

// Rank is a position on one of the ranked scales. Known is false for
// symbols outside the alphabet, so an unknown symbol is never mistaken for
// the lowest rank.
type Rank struct {
	Value int
	Known bool
}

// Int returns the rank value, or Unattested when the rank is unknown.
func (r Rank) Int() int {
	if !r.Known {
		return Unattested
	}
	return r.Value
}

func (r Rank) String() string {
	if !r.Known {
		return "-"
	}
	return strconv.Itoa(r.Value)
}

// Sonority ranks p from 0 (stops) to 12 (low vowels).
func Sonority(p Phoneme) Rank {
	v, ok := sonorityIndex[p]
	return Rank{Value: v, Known: ok}
}

// Backness ranks p by place of articulation from 0 (labial) to 10
// (glottal), with vowels placed by front-to-back quality.
func Backness(p Phoneme) Rank {
	v, ok := backnessIndex[p]
	return Rank{Value: v, Known: ok}
}

// VOT reports whether p is in the voiceless (long voice-onset) class.
func VOT(p Phoneme) bool { return flagIndex[p]&flagVOT != 0 }

// Rounded reports whether p is produced with lip rounding.
func Rounded(p Phoneme) bool { return flagIndex[p]&flagRounded != 0 }

// Palatalized reports whether p is one of the alveolo-palatal fricatives.
func Palatalized(p Phoneme) bool { return flagIndex[p]&flagPalatalized != 0 }

// Lateral reports whether p is a lateral consonant.
func Lateral(p Phoneme) bool { return flagIndex[p]&flagLateral != 0 }

// Nasal reports whether p is a nasal stop.
func Nasal(p Phoneme) bool { return flagIndex[p]&flagNasal != 0 }

// Sibilant reports whether p is a sibilant fricative or affricate.
func Sibilant(p Phoneme) bool { return flagIndex[p]&flagSibilant != 0 }

// Trilled reports whether p is a trill.
func Trilled(p Phoneme) bool { return flagIndex[p]&flagTrilled != 0 }

// Diphthong reports whether p is one of the single-symbol diphthongs.
func Diphthong(p Phoneme) bool { return flagIndex[p]&flagDiphthong != 0 }

// Vector is the full feature description of one phoneme.
type Vector struct {
	Phoneme     Phoneme
	Sonority    Rank
	Backness    Rank
	VOT         bool
	Rounded     bool
	Palatalized bool
	Lateral     bool
	Nasal       bool
	Sibilant    bool
	Trilled     bool
	Diphthong   bool
}

// Extract computes the feature vector of p.
func Extract(p Phoneme) Vector {
	f := flagIndex[p]
	return Vector{
		Phoneme:     p,
		Sonority:    Sonority(p),
		Backness:    Backness(p),
		VOT:         f&flagVOT != 0,
		Rounded:     f&flagRounded != 0,
		Palatalized: f&flagPalatalized != 0,
		Lateral:     f&flagLateral != 0,
		Nasal:       f&flagNasal != 0,
		Sibilant:    f&flagSibilant != 0,
		Trilled:     f&flagTrilled != 0,
		Diphthong:   f&flagDiphthong != 0,
	}
}

// Known reports whether the vector describes a symbol of the alphabet.
func (v Vector) Known() bool { return v.Sonority.Known }

// Bits returns the binary features as 0/1 in the order VOT, rounded,
// palatalized, lateral, nasal, sibilant, trilled, diphthong.
func (v Vector) Bits() [8]int {
	return [8]int{
		b2i(v.VOT), b2i(v.Rounded), b2i(v.Palatalized), b2i(v.Lateral),
		b2i(v.Nasal), b2i(v.Sibilant), b2i(v.Trilled), b2i(v.Diphthong),
	}
}

// Ints returns sonority, backness and the binary features as one numeric
// row, with Unattested standing in for unknown ranks.
func (v Vector) Ints() []int {
	bits := v.Bits()
	out := make([]int, 0, 2+len(bits))
	out = append(out, v.Sonority.Int(), v.Backness.Int())
	return append(out, bits[:]...)
}

// SonorityProfile returns the sonority of each phoneme of a normalized
// transcription, in order.
func SonorityProfile(transcription string) []Rank {
	segs := Segment(transcription)
	out := make([]Rank, len(segs))
	for i, p := range segs {
		out[i] = Sonority(p)
	}
	return out
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
