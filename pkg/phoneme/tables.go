package phoneme

// sonorityClasses is indexed by rank: stops, affricates, fricatives, nasals,
// trills, approximants and laterals, high, near-high, mid, schwa, mid-low,
// near-low and low vowels.
var sonorityClasses = [][]Phoneme{
	{"p", "b", "t", "d", "ʈ", "ɖ", "c", "ɟ", "k", "g", "q", "ɢ", "ʔ"},
	{"ʦ", "ʣ", "ʧ", "ʤ"},
	{"ɸ", "β", "f", "v", "θ", "ð", "s", "z", "ɬ", "ɮ", "ʃ", "ʒ", "ʂ", "ʐ",
		"ɕ", "ʑ", "ç", "ʝ", "ɧ", "x", "ɣ", "χ", "ʁ", "ħ", "ʕ", "h", "ɦ"},
	{"m", "ɱ", "n", "ɳ", "ɲ", "ŋ", "ɴ"},
	{"ʙ", "ⱱ", "ɾ", "r", "ɺ", "ɽ", "ʀ", "ʜ", "ʢ"},
	{"ʋ", "ɹ", "l", "ɻ", "ɭ", "j", "ɥ", "ʎ", "ɰ", "ʍ", "w", "ʟ"},
	{"i", "y", "I", "ɨ", "ʉ", "ɯ", "u", "U"},
	{"ɪ", "ʏ", "ʊ"},
	{"e", "ø", "E", "ɘ", "ɵ", "ɤ", "o", "O"},
	{"ə", "Ø"},
	{"ɛ", "œ", "ɜ", "ɞ", "ʌ", "ɔ"},
	{"æ", "ɐ"},
	{"a", "ɶ", "Y", "W", "ɑ", "ɒ"},
}

// backnessClasses is indexed by rank, from labial through glottal. Vowels
// share the scale by front-to-back quality.
var backnessClasses = [][]Phoneme{
	{"p", "b", "ɸ", "β", "m", "ʙ"},
	{"f", "v", "ɱ", "ⱱ", "ʋ"},
	{"θ", "ð"},
	{"t", "d", "ʦ", "ʣ", "s", "z", "ɬ", "ɮ", "n", "ɾ", "r", "ɺ", "ɹ", "l"},
	{"ʈ", "ɖ", "ʧ", "ʤ", "ʃ", "ʒ", "ʂ", "ʐ", "ɕ", "ʑ", "ɳ", "ɽ", "ɻ", "ɭ"},
	{"c", "ɟ", "ç", "ʝ", "ɲ", "j", "ɥ", "ʎ", "i", "y", "I", "ɪ", "ʏ"},
	{"ɧ", "ɨ", "ʉ", "e", "ø", "E"},
	{"k", "g", "x", "ɣ", "ŋ", "ɰ", "ʍ", "w", "ʟ", "ɯ", "u", "U", "ʊ", "ɘ",
		"ɵ", "ɛ", "œ"},
	{"q", "ɢ", "χ", "ʁ", "ɴ", "ʀ", "ɤ", "o", "O", "ɜ", "ɞ", "ə", "Ø", "æ",
		"a", "ɶ"},
	{"ħ", "ʕ", "ʜ", "ʢ", "ʌ", "ɔ", "ɐ", "Y", "W"},
	{"ʔ", "h", "ɦ", "ɑ", "ɒ"},
}

var (
	votSet = []Phoneme{"p", "t", "ʈ", "c", "k", "q", "ʔ", "ʦ", "ʧ", "ɸ", "f", "θ",
		"s", "ɬ", "ʃ", "ʂ", "ɕ", "ç", "ɧ", "x", "χ", "ħ", "h", "ʜ", "ʍ"}
	roundedSet = []Phoneme{"ʃ", "ʒ", "ɹ", "ɻ", "ɥ", "ʍ", "w", "y", "ʉ", "u", "U",
		"ʏ", "ʊ", "ø", "ɵ", "o", "O", "œ", "ɞ", "Ø", "ɔ", "ɶ", "W", "ɒ"}
	palatalizedSet = []Phoneme{"ɕ", "ʑ"}
	lateralSet     = []Phoneme{"ɬ", "ɮ", "ɺ", "l", "ɭ", "ʎ", "ʟ"}
	nasalSet       = []Phoneme{"m", "ɱ", "n", "ɳ", "ɲ", "ŋ", "ɴ"}
	sibilantSet    = []Phoneme{"ʦ", "ʣ", "ʧ", "ʤ", "s", "z", "ʃ", "ʒ", "ʂ", "ʐ",
		"ɕ", "ʑ"}
	trilledSet   = []Phoneme{"ʙ", "r", "ʀ", "ʜ", "ʢ"}
	diphthongSet = []Phoneme{DiphthongI, DiphthongU, DiphthongEI, DiphthongOU,
		DiphthongOI, DiphthongAI, DiphthongAU}
)

// flag bit positions, in Vector.Bits order.
const (
	flagVOT uint8 = 1 << iota
	flagRounded
	flagPalatalized
	flagLateral
	flagNasal
	flagSibilant
	flagTrilled
	flagDiphthong
)

var (
	sonorityIndex = rankIndex(sonorityClasses)
	backnessIndex = rankIndex(backnessClasses)
	flagIndex     = buildFlags(map[uint8][]Phoneme{
		flagVOT:         votSet,
		flagRounded:     roundedSet,
		flagPalatalized: palatalizedSet,
		flagLateral:     lateralSet,
		flagNasal:       nasalSet,
		flagSibilant:    sibilantSet,
		flagTrilled:     trilledSet,
		flagDiphthong:   diphthongSet,
	})
)

func rankIndex(classes [][]Phoneme) map[Phoneme]int {
	idx := make(map[Phoneme]int, len(alphabet))
	for rank, class := range classes {
		for _, p := range class {
			idx[p] = rank
		}
	}
	return idx
}

func buildFlags(sets map[uint8][]Phoneme) map[Phoneme]uint8 {
	idx := make(map[Phoneme]uint8)
	for bit, set := range sets {
		for _, p := range set {
			idx[p] |= bit
		}
	}
	return idx
}
