package dictionary

import (
	"database/sql"

	"github.com/japaniel/pastphon/pkg/db"
	"github.com/japaniel/pastphon/pkg/logging"
	"github.com/japaniel/pastphon/pkg/transcript"
)

// Importer backfills stored verb pairs that were skipped for a missing
// transcription, using a (usually larger) dictionary.
type Importer struct {
	conn *sql.DB
	dict transcript.Dictionary
}

// NewImporter creates an importer over conn using dict for lookups.
func NewImporter(conn *sql.DB, dict transcript.Dictionary) *Importer {
	return &Importer{
		conn: conn,
		dict: dict,
	}
}

// ProcessUpdates re-transcribes every skipped pair in the database and
// stores the ones the dictionary now covers. It returns the number of
// pairs updated.
func (im *Importer) ProcessUpdates() (int, error) {
	log := logging.WithComponent("importer")

	skipped, err := db.GetVerbPairsByStatus(im.conn, transcript.StatusMissingTranscription)
	if err != nil {
		return 0, err
	}

	type update struct {
		sourceID int64
		position int
		outcome  transcript.Outcome
	}
	var updates []update
	for _, row := range skipped {
		pair := transcript.VerbPair{Present: row.PresentSpelling, Past: row.PastSpelling}
		o := transcript.TranscribePair(pair, im.dict)
		if !o.Produced() {
			continue
		}
		updates = append(updates, update{row.SourceID, row.Position, o})
	}

	updatedCount := 0
	for _, u := range updates {
		if _, err := db.SaveOutcome(im.conn, u.sourceID, u.position, u.outcome); err != nil {
			log.Error().Err(err).
				Int64("source_id", u.sourceID).
				Int("position", u.position).
				Msg("failed to backfill verb pair")
			continue
		}
		updatedCount++
	}

	log.Info().
		Int("skipped", len(skipped)).
		Int("updated", updatedCount).
		Msg("backfill complete")
	return updatedCount, nil
}
