package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/japaniel/pastphon/pkg/transcript"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	c := NewCoverage()
	dict := transcript.MapDictionary{"walk": "wɔk", "walked": "wɔkt", "see": "si", "saw": "sɔ", "go": "gow"}

	for _, o := range transcript.Merge([]transcript.VerbPair{
		{Present: "walk", Past: "walked"},
		{Present: "see", Past: "saw"},
		{Present: "go", Past: "went"},
		{Present: "zorp", Past: "zorped"},
	}, dict) {
		c.Observe(o)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Pairs.WithLabelValues(string(transcript.StatusProduced))))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Pairs.WithLabelValues(string(transcript.StatusMissingTranscription))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Regularity.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Regularity.WithLabelValues("false")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.MissingEntries))
	assert.Equal(t, 3.0+4+2+2, testutil.ToFloat64(c.Phonemes))
	assert.Equal(t, 0, testutil.CollectAndCount(c.UnknownPhonemes))
}

func TestObserveUnknownSymbol(t *testing.T) {
	c := NewCoverage()
	o := transcript.TranscribePair(transcript.VerbPair{Present: "x", Past: "xed"},
		transcript.MapDictionary{"x": "ɡ", "xed": "ɡd"})
	c.Observe(o)
	// ɡ (U+0261) is not the alphabet's g.
	assert.Equal(t, 2.0, testutil.ToFloat64(c.UnknownPhonemes.WithLabelValues("ɡ")))
}

func TestWriteTextfile(t *testing.T) {
	c := NewCoverage()
	c.Observe(transcript.Outcome{Status: transcript.StatusMissingTranscription, Missing: []string{"went"}})
	c.ObserveRun(time.Now().Add(-time.Second))

	path := filepath.Join(t.TempDir(), "pastphon.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `pastphon_verb_pairs_total{status="skipped_missing_transcription"} 1`)
	assert.Contains(t, string(data), "pastphon_ingest_duration_seconds_count 1")
}
