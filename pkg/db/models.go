package db

import "time"

// Source is one ingested verb list, transcribed against one dictionary.
type Source struct {
	ID                int64
	SourceType        string
	Path              string
	DictionaryPath    string
	AddedAt           time.Time
	LastProcessedPair int
}

// VerbPair is a stored verb pair. PresentIPA and PastIPA are empty when
// Status records a missing transcription.
type VerbPair struct {
	ID              int64
	SourceID        int64
	Position        int
	PresentSpelling string
	PastSpelling    string
	PresentIPA      string
	PastIPA         string
	Regular         bool
	Status          string
}

// Form names which half of a verb pair a phoneme belongs to.
type Form string

const (
	FormPresent Form = "present"
	FormPast    Form = "past"
)

// PairPhoneme is one segment of a stored transcription joined with its
// ranks. A nil rank means the symbol is outside the alphabet.
type PairPhoneme struct {
	Position int
	Symbol   string
	Sonority *int
	Backness *int
}
