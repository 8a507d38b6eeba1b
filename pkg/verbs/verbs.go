package verbs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/japaniel/pastphon/pkg/transcript"
)

// Column layout of the verb-frequency list.
const (
	presentColumn = 0
	pastColumn    = 3
)

// ErrShortRow is wrapped by RowError when a row lacks the past-tense
// column.
var ErrShortRow = errors.New("row has too few columns")

// RowError reports a malformed row by its 1-based line number.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("verb list line %d: %v", e.Line, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// Parse reads a verb-frequency list: a header row followed by rows whose
// first column is the present-tense spelling and fourth column the past
// tense. Spaces inside fields are removed. Blank rows are skipped.
func Parse(r io.Reader) ([]transcript.VerbPair, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var pairs []transcript.VerbPair
	header := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read verb list: %w", err)
		}
		if header {
			header = false
			continue
		}
		if isBlank(record) {
			continue
		}
		if len(record) <= pastColumn {
			line, _ := cr.FieldPos(0)
			return nil, &RowError{Line: line, Err: ErrShortRow}
		}
		pairs = append(pairs, transcript.VerbPair{
			Present: clean(record[presentColumn]),
			Past:    clean(record[pastColumn]),
		})
	}
	return pairs, nil
}

// LoadFile opens and parses the verb list at path.
func LoadFile(path string) ([]transcript.VerbPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func clean(field string) string {
	return strings.ReplaceAll(strings.TrimSpace(field), " ", "")
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
