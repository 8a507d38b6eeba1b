package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/japaniel/pastphon/pkg/transcript"
	"golang.org/x/text/unicode/norm"
)

// Dictionary maps spellings to stress-free IPA transcriptions, as read from
// the CMU Pronouncing Dictionary in IPA (one "spelling,transcription" entry
// per line). Diphthongs are kept as two-symbol sequences; the transcript
// package folds them. A Dictionary is read-only once loaded and safe for
// concurrent use.
type Dictionary struct {
	entries map[string]string

	// Variants counts alternate-pronunciation entries ("word(2)") that were
	// excluded. Malformed counts non-blank lines without two fields.
	Variants  int
	Malformed int
}

var _ transcript.Dictionary = (*Dictionary)(nil)

// Parse reads a dictionary. The first entry for a spelling wins; variant
// entries whose spelling contains "(" are skipped.
func Parse(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{entries: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := norm.NFC.String(scanner.Text())
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			d.Malformed++
			continue
		}

		spelling := strings.TrimSpace(transcript.StripStress(fields[0]))
		if spelling == "" {
			d.Malformed++
			continue
		}
		if strings.Contains(spelling, "(") {
			d.Variants++
			continue
		}
		if _, exists := d.entries[spelling]; exists {
			continue
		}
		d.entries[spelling] = transcript.StripStress(fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary at line %d: %w", lineNum, err)
	}
	return d, nil
}

// LoadFile opens and parses the dictionary at path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Lookup returns the transcription for a spelling.
func (d *Dictionary) Lookup(spelling string) (string, bool) {
	ipa, ok := d.entries[spelling]
	return ipa, ok
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }
