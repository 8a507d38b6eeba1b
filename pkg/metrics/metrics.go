// Package metrics provides Prometheus coverage metrics for transcription
// runs. Metrics live on a private registry and are exported as a textfile
// for node_exporter, since the CLI runs as a batch job.
package metrics

import (
	"time"

	"github.com/japaniel/pastphon/pkg/phoneme"
	"github.com/japaniel/pastphon/pkg/transcript"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pastphon"

// Coverage holds the metrics of one run.
type Coverage struct {
	registry *prometheus.Registry

	Pairs           *prometheus.CounterVec
	Regularity      *prometheus.CounterVec
	MissingEntries  prometheus.Counter
	Phonemes        prometheus.Counter
	UnknownPhonemes *prometheus.CounterVec
	IngestDuration  prometheus.Histogram
	LastRun         prometheus.Gauge
}

// NewCoverage creates and registers the run metrics.
func NewCoverage() *Coverage {
	c := &Coverage{
		registry: prometheus.NewRegistry(),
		Pairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verb_pairs_total",
			Help:      "Verb pairs processed, by outcome status",
		}, []string{"status"}),
		Regularity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcribed_pairs_total",
			Help:      "Transcribed verb pairs, by orthographic regularity",
		}, []string{"regular"}),
		MissingEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_dictionary_entries_total",
			Help:      "Spellings absent from the pronunciation dictionary",
		}),
		Phonemes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phonemes_total",
			Help:      "Phonemes segmented from transcribed pairs",
		}),
		UnknownPhonemes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_phonemes_total",
			Help:      "Segmented symbols outside the phoneme alphabet",
		}, []string{"symbol"}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Duration of ingest runs in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run",
		}),
	}
	c.registry.MustRegister(
		c.Pairs, c.Regularity, c.MissingEntries, c.Phonemes,
		c.UnknownPhonemes, c.IngestDuration, c.LastRun,
	)
	return c
}

// Observe records one outcome. Safe for concurrent use.
func (c *Coverage) Observe(o transcript.Outcome) {
	c.Pairs.WithLabelValues(string(o.Status)).Inc()
	if !o.Produced() {
		c.MissingEntries.Add(float64(len(o.Missing)))
		return
	}
	if o.Result.Regular {
		c.Regularity.WithLabelValues("true").Inc()
	} else {
		c.Regularity.WithLabelValues("false").Inc()
	}
	for _, t := range []string{o.Result.Present, o.Result.Past} {
		for _, p := range phoneme.Segment(t) {
			c.Phonemes.Inc()
			if !phoneme.IsKnown(p) {
				c.UnknownPhonemes.WithLabelValues(string(p)).Inc()
			}
		}
	}
}

// ObserveRun records a completed run that started at start.
func (c *Coverage) ObserveRun(start time.Time) {
	c.IngestDuration.Observe(time.Since(start).Seconds())
	c.LastRun.SetToCurrentTime()
}

// WriteTextfile writes the current metrics in the text exposition format.
func (c *Coverage) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
