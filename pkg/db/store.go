package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/japaniel/pastphon/pkg/phoneme"
	"github.com/japaniel/pastphon/pkg/transcript"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// isUniqueConstraintErr returns true when the error indicates a unique/constraint violation
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique") || strings.Contains(s, "constraint failed")
}

// CreateOrGetSource returns the id of the source for a verb list and
// dictionary pair, inserting it if needed.
func CreateOrGetSource(db DBExecutor, sourceType, path, dictionaryPath string) (int64, error) {
	trimmedSourceType := strings.TrimSpace(sourceType)
	if trimmedSourceType == "" {
		return 0, fmt.Errorf("sourceType must be non-empty")
	}
	if strings.TrimSpace(path) == "" {
		return 0, fmt.Errorf("path must be non-empty")
	}

	const maxRetries = 3

	var id int64
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := db.QueryRow(
			`SELECT id FROM sources WHERE path = ? AND dictionary_path = ?`,
			path, dictionaryPath,
		).Scan(&id)
		if err == nil {
			return id, nil
		}
		if err != sql.ErrNoRows {
			return 0, err
		}

		res, err := db.Exec(
			`INSERT INTO sources (source_type, path, dictionary_path) VALUES (?, ?, ?)`,
			trimmedSourceType, path, dictionaryPath,
		)
		if err != nil {
			// Lost an insert race; the SELECT will find the winner.
			if isUniqueConstraintErr(err) {
				continue
			}
			return 0, err
		}
		return res.LastInsertId()
	}

	return 0, fmt.Errorf("could not create or get source after %d retries", maxRetries)
}

// GetSource loads a source by id.
func GetSource(db DBExecutor, sourceID int64) (Source, error) {
	var s Source
	err := db.QueryRow(
		`SELECT id, source_type, path, dictionary_path, added_at, last_processed_pair FROM sources WHERE id = ?`,
		sourceID,
	).Scan(&s.ID, &s.SourceType, &s.Path, &s.DictionaryPath, &s.AddedAt, &s.LastProcessedPair)
	if err != nil {
		return Source{}, err
	}
	return s, nil
}

// GetSourceProgress returns the position of the last persisted verb pair,
// or -1 if none has been persisted.
func GetSourceProgress(db DBExecutor, sourceID int64) (int, error) {
	var index int
	err := db.QueryRow("SELECT last_processed_pair FROM sources WHERE id = ?", sourceID).Scan(&index)
	if err != nil {
		return 0, err
	}
	return index, nil
}

// ErrProgressGap is returned when a checkpoint would skip a position that
// was never stored.
var ErrProgressGap = errors.New("progress checkpoint out of sequence")

// AdvanceSourceProgress moves the checkpoint to index, which must directly
// follow the stored checkpoint.
func AdvanceSourceProgress(db DBExecutor, sourceID int64, index int) error {
	res, err := db.Exec(
		"UPDATE sources SET last_processed_pair = ? WHERE id = ? AND last_processed_pair = ?",
		index, sourceID, index-1,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("advance source %d to pair %d: %w", sourceID, index, ErrProgressGap)
	}
	return nil
}

// UpsertVerbPair stores the outcome for the pair at position in a source
// and returns the row id. Storing the same position again replaces it.
func UpsertVerbPair(db DBExecutor, sourceID int64, position int, o transcript.Outcome) (int64, error) {
	if sourceID <= 0 {
		return 0, fmt.Errorf("sourceID must be positive")
	}
	if position < 0 {
		return 0, fmt.Errorf("position must be non-negative, got %d", position)
	}

	var presentIPA, pastIPA sql.NullString
	if o.Produced() {
		presentIPA = sql.NullString{String: o.Result.Present, Valid: true}
		pastIPA = sql.NullString{String: o.Result.Past, Valid: true}
	}

	var id int64
	err := db.QueryRow(`INSERT INTO verb_pairs
	  (source_id, position, present_spelling, past_spelling, present_ipa, past_ipa, regular, status)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(source_id, position) DO UPDATE SET
	  present_spelling = excluded.present_spelling,
	  past_spelling = excluded.past_spelling,
	  present_ipa = excluded.present_ipa,
	  past_ipa = excluded.past_ipa,
	  regular = excluded.regular,
	  status = excluded.status
	RETURNING id`,
		sourceID, position, o.Pair.Present, o.Pair.Past, presentIPA, pastIPA,
		transcript.IsRegular(o.Pair.Past), string(o.Status),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert verb pair %d: %w", position, err)
	}
	return id, nil
}

// UpsertPhoneme stores the feature vector of a symbol. Unknown ranks are
// stored as NULL.
func UpsertPhoneme(db DBExecutor, v phoneme.Vector) error {
	if v.Phoneme == "" {
		return fmt.Errorf("phoneme symbol must be non-empty")
	}
	bits := v.Bits()
	_, err := db.Exec(`INSERT INTO phonemes
	  (symbol, sonority, backness, vot, rounded, palatalized, lateral, nasal, sibilant, trilled, diphthong)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(symbol) DO UPDATE SET
	  sonority = excluded.sonority,
	  backness = excluded.backness,
	  vot = excluded.vot,
	  rounded = excluded.rounded,
	  palatalized = excluded.palatalized,
	  lateral = excluded.lateral,
	  nasal = excluded.nasal,
	  sibilant = excluded.sibilant,
	  trilled = excluded.trilled,
	  diphthong = excluded.diphthong`,
		string(v.Phoneme), nullableRank(v.Sonority), nullableRank(v.Backness),
		bits[0], bits[1], bits[2], bits[3], bits[4], bits[5], bits[6], bits[7],
	)
	if err != nil {
		return fmt.Errorf("upsert phoneme %q: %w", v.Phoneme, err)
	}
	return nil
}

// nullableRank returns nil for an unknown rank else its value.
func nullableRank(r phoneme.Rank) interface{} {
	if !r.Known {
		return nil
	}
	return r.Value
}

// LinkPairPhonemes replaces the stored segmentation of one form of a verb
// pair. Every symbol must already exist in phonemes.
func LinkPairPhonemes(db DBExecutor, pairID int64, form Form, segs []phoneme.Phoneme) error {
	if pairID <= 0 {
		return fmt.Errorf("pairID must be positive")
	}
	if form != FormPresent && form != FormPast {
		return fmt.Errorf("unknown form %q", form)
	}
	if _, err := db.Exec(`DELETE FROM pair_phonemes WHERE verb_pair_id = ? AND form = ?`, pairID, string(form)); err != nil {
		return err
	}
	for i, p := range segs {
		if _, err := db.Exec(
			`INSERT INTO pair_phonemes (verb_pair_id, form, position, symbol) VALUES (?, ?, ?, ?)`,
			pairID, string(form), i, string(p),
		); err != nil {
			return fmt.Errorf("link %s phoneme %d of pair %d: %w", form, i, pairID, err)
		}
	}
	return nil
}

// SaveOutcome persists one outcome: the verb pair row and, for produced
// pairs, the features and segmentation of both transcriptions. It returns
// the verb pair id.
func SaveOutcome(db DBExecutor, sourceID int64, position int, o transcript.Outcome) (int64, error) {
	pairID, err := UpsertVerbPair(db, sourceID, position, o)
	if err != nil {
		return 0, err
	}
	if !o.Produced() {
		// A previously produced row may be downgraded by a smaller dictionary.
		if _, err := db.Exec(`DELETE FROM pair_phonemes WHERE verb_pair_id = ?`, pairID); err != nil {
			return 0, err
		}
		return pairID, nil
	}

	for _, f := range []struct {
		form Form
		ipa  string
	}{
		{FormPresent, o.Result.Present},
		{FormPast, o.Result.Past},
	} {
		segs := phoneme.Segment(f.ipa)
		for _, p := range segs {
			if err := UpsertPhoneme(db, phoneme.Extract(p)); err != nil {
				return 0, err
			}
		}
		if err := LinkPairPhonemes(db, pairID, f.form, segs); err != nil {
			return 0, err
		}
	}
	return pairID, nil
}

const verbPairColumns = `id, source_id, position, present_spelling, past_spelling, present_ipa, past_ipa, regular, status`

func scanVerbPairs(rows *sql.Rows) ([]VerbPair, error) {
	defer rows.Close()
	var out []VerbPair
	for rows.Next() {
		var vp VerbPair
		var presentIPA, pastIPA sql.NullString
		if err := rows.Scan(&vp.ID, &vp.SourceID, &vp.Position, &vp.PresentSpelling, &vp.PastSpelling,
			&presentIPA, &pastIPA, &vp.Regular, &vp.Status); err != nil {
			return nil, err
		}
		if presentIPA.Valid {
			vp.PresentIPA = presentIPA.String
		}
		if pastIPA.Valid {
			vp.PastIPA = pastIPA.String
		}
		out = append(out, vp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetVerbPairsBySource returns the stored pairs of a source in input order.
func GetVerbPairsBySource(db DBExecutor, sourceID int64) ([]VerbPair, error) {
	rows, err := db.Query(`SELECT `+verbPairColumns+` FROM verb_pairs WHERE source_id = ? ORDER BY position`, sourceID)
	if err != nil {
		return nil, err
	}
	return scanVerbPairs(rows)
}

// GetVerbPairAt returns the stored pair at position in a source.
func GetVerbPairAt(db DBExecutor, sourceID int64, position int) (VerbPair, error) {
	rows, err := db.Query(`SELECT `+verbPairColumns+` FROM verb_pairs WHERE source_id = ? AND position = ?`, sourceID, position)
	if err != nil {
		return VerbPair{}, err
	}
	pairs, err := scanVerbPairs(rows)
	if err != nil {
		return VerbPair{}, err
	}
	if len(pairs) == 0 {
		return VerbPair{}, sql.ErrNoRows
	}
	return pairs[0], nil
}

// GetVerbPairsByStatus returns every stored pair with the given status,
// ordered by source and position.
func GetVerbPairsByStatus(db DBExecutor, status transcript.Status) ([]VerbPair, error) {
	rows, err := db.Query(`SELECT `+verbPairColumns+` FROM verb_pairs WHERE status = ? ORDER BY source_id, position`, string(status))
	if err != nil {
		return nil, err
	}
	return scanVerbPairs(rows)
}

// CountByStatus returns the number of stored pairs of a source per status.
func CountByStatus(db DBExecutor, sourceID int64) (map[transcript.Status]int, error) {
	rows, err := db.Query(`SELECT status, COUNT(*) FROM verb_pairs WHERE source_id = ? GROUP BY status`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[transcript.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[transcript.Status(status)] = n
	}
	return out, rows.Err()
}

// GetPairPhonemes returns one form of a stored pair segment by segment,
// with the ranks recorded for each symbol.
func GetPairPhonemes(db DBExecutor, pairID int64, form Form) ([]PairPhoneme, error) {
	rows, err := db.Query(`SELECT pp.position, pp.symbol, p.sonority, p.backness
	FROM pair_phonemes pp JOIN phonemes p ON p.symbol = pp.symbol
	WHERE pp.verb_pair_id = ? AND pp.form = ?
	ORDER BY pp.position`, pairID, string(form))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PairPhoneme
	for rows.Next() {
		var pp PairPhoneme
		var son, back sql.NullInt64
		if err := rows.Scan(&pp.Position, &pp.Symbol, &son, &back); err != nil {
			return nil, err
		}
		if son.Valid {
			v := int(son.Int64)
			pp.Sonority = &v
		}
		if back.Valid {
			v := int(back.Int64)
			pp.Backness = &v
		}
		out = append(out, pp)
	}
	return out, rows.Err()
}
