package transcript

import "strings"

// VerbPair is a present/past spelling pair as read from the verb list.
type VerbPair struct {
	Present string
	Past    string
}

// TranscribedVerbPair is a verb pair with both forms transcribed and
// normalized.
type TranscribedVerbPair struct {
	Present string
	Past    string
	Regular bool
}

// Dictionary maps a spelling to its transcription.
type Dictionary interface {
	Lookup(spelling string) (string, bool)
}

// MapDictionary adapts a plain map to Dictionary.
type MapDictionary map[string]string

func (m MapDictionary) Lookup(spelling string) (string, bool) {
	ipa, ok := m[spelling]
	return ipa, ok
}

// Status is the outcome of transcribing one verb pair.
type Status string

const (
	StatusProduced             Status = "produced"
	StatusMissingTranscription Status = "skipped_missing_transcription"
)

// Outcome records what happened to a single verb pair. Result is only set
// when Status is StatusProduced; Missing lists the spellings the dictionary
// had no entry for otherwise.
type Outcome struct {
	Pair    VerbPair
	Status  Status
	Result  TranscribedVerbPair
	Missing []string
}

// Produced reports whether the pair was transcribed.
func (o Outcome) Produced() bool { return o.Status == StatusProduced }

// irregularED are past forms that end in "ed" without taking the regular
// suffix.
var irregularED = map[string]struct{}{
	"sped": {}, "bred": {}, "fed": {}, "fled": {},
	"bled": {}, "led": {}, "shed": {}, "wed": {},
}

// IsRegular classifies a past-tense spelling as regular. It looks only at
// the spelling, never at the transcription.
func IsRegular(past string) bool {
	if !strings.HasSuffix(past, "ed") {
		return false
	}
	_, irregular := irregularED[past]
	return !irregular
}

const (
	reducedED   = "ʌd"
	canonicalED = "ɪd"
)

// NormalizeAllomorph rewrites a trailing ʌd to ɪd on regular past forms.
// Any other ending, and any irregular form, is returned unchanged.
func NormalizeAllomorph(past string, regular bool) string {
	if regular && strings.HasSuffix(past, reducedED) {
		return strings.TrimSuffix(past, reducedED) + canonicalED
	}
	return past
}

// TranscribePair runs the full per-pair pipeline: orthographic
// classification, lookup of both forms, normalization and allomorph
// rewriting.
func TranscribePair(pair VerbPair, dict Dictionary) Outcome {
	regular := IsRegular(pair.Past)

	present, okPresent := dict.Lookup(pair.Present)
	past, okPast := dict.Lookup(pair.Past)
	if !okPresent || !okPast {
		out := Outcome{Pair: pair, Status: StatusMissingTranscription}
		if !okPresent {
			out.Missing = append(out.Missing, pair.Present)
		}
		if !okPast {
			out.Missing = append(out.Missing, pair.Past)
		}
		return out
	}

	present = Normalize(present)
	past = NormalizeAllomorph(Normalize(past), regular)

	return Outcome{
		Pair:   pair,
		Status: StatusProduced,
		Result: TranscribedVerbPair{Present: present, Past: past, Regular: regular},
	}
}

// Merge transcribes every pair in order and returns one Outcome per input
// pair, including those skipped for a missing transcription.
func Merge(pairs []VerbPair, dict Dictionary) []Outcome {
	out := make([]Outcome, len(pairs))
	for i, p := range pairs {
		out[i] = TranscribePair(p, dict)
	}
	return out
}

// Transcribe returns only the transcribed pairs, in input order. Pairs
// with a missing dictionary entry are dropped.
func Transcribe(pairs []VerbPair, dict Dictionary) []TranscribedVerbPair {
	var out []TranscribedVerbPair
	for _, p := range pairs {
		if o := TranscribePair(p, dict); o.Produced() {
			out = append(out, o.Result)
		}
	}
	return out
}

// Coverage summarizes a run of outcomes.
type Coverage struct {
	Total     int
	Produced  int
	Skipped   int
	Regular   int
	Irregular int
}

// Summarize counts outcomes by status, and produced pairs by regularity.
func Summarize(outcomes []Outcome) Coverage {
	var c Coverage
	for _, o := range outcomes {
		c.Total++
		if !o.Produced() {
			c.Skipped++
			continue
		}
		c.Produced++
		if o.Result.Regular {
			c.Regular++
		} else {
			c.Irregular++
		}
	}
	return c
}

// Ratio is the share of pairs that were transcribed.
func (c Coverage) Ratio() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Produced) / float64(c.Total)
}
