package main

import (
	"fmt"
	"io"
	"time"

	"github.com/japaniel/pastphon/pkg/db"
	"github.com/japaniel/pastphon/pkg/ingest"
	"github.com/japaniel/pastphon/pkg/logging"
	"github.com/japaniel/pastphon/pkg/metrics"
	"github.com/japaniel/pastphon/pkg/transcript"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func (c *cli) transcribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe the verb list against the dictionary",
		Long: `Transcribe every present/past pair of the verb list.

Without a database the transcribed pairs are printed as tab-separated
present, past and regular columns, in input order. Pairs with a missing
dictionary entry are left out. With --db every outcome is stored instead,
resuming after the last stored pair.`,
		Args: cobra.NoArgs,
		RunE: c.runTranscribe,
	}

	cmd.Flags().String("verbs", "", "verb list CSV (overrides verbs.path)")
	cmd.Flags().String("dictionary", "", "pronunciation dictionary (overrides dictionary.path)")
	cmd.Flags().String("dictionary-url", "", "download url used when the dictionary file is missing")
	cmd.Flags().String("db", "", "store outcomes in this SQLite database")
	cmd.Flags().Int("workers", 0, "ingest workers (overrides ingest.workers)")
	cmd.Flags().Int("batch-size", 0, "pairs per transaction (overrides ingest.batch_size)")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics to this textfile")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func (c *cli) runTranscribe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := c.cfg
	log := logging.WithComponent("cli")

	dict, err := loadDictionary(ctx, cfg)
	if err != nil {
		return err
	}
	pairs, err := loadVerbs(cfg)
	if err != nil {
		return err
	}

	cov := metrics.NewCoverage()
	var summary transcript.Coverage

	if cfg.DatabasePath == "" {
		start := time.Now()
		outcomes := transcript.Merge(pairs, dict)
		if err := writeTriples(cmd.OutOrStdout(), outcomes); err != nil {
			return err
		}
		for _, o := range outcomes {
			cov.Observe(o)
			if !o.Produced() {
				log.Debug().Strs("missing", o.Missing).Str("present", o.Pair.Present).Msg("pair skipped")
			}
		}
		cov.ObserveRun(start)
		summary = transcript.Summarize(outcomes)
	} else {
		conn, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		sourceID, err := db.CreateOrGetSource(conn, "verb_list", cfg.VerbsPath, cfg.DictionaryPath)
		if err != nil {
			return fmt.Errorf("failed to persist source: %w", err)
		}

		ingester := ingest.NewIngester(conn)
		ingester.Workers = cfg.Workers
		ingester.BatchSize = cfg.BatchSize
		ingester.Metrics = cov

		noProgress, _ := cmd.Flags().GetBool("no-progress")
		var bar *progressbar.ProgressBar
		if !noProgress {
			bar = newProgressBar(cmd.ErrOrStderr(), len(pairs))
			ingester.OnProgress = func(current, _ int) {
				_ = bar.Set(current)
			}
		}

		res, err := ingester.Ingest(ctx, sourceID, pairs, dict)
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}
		log.Info().
			Int64("source_id", sourceID).
			Int("produced", res.Produced).
			Int("skipped", res.Skipped).
			Msg("verb pairs stored")

		rows, err := db.GetVerbPairsBySource(conn, sourceID)
		if err != nil {
			return err
		}
		summary = coverageOf(rows)
	}

	printSummary(cmd.ErrOrStderr(), summary)

	if cfg.MetricsFile != "" {
		if err := cov.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		log.Info().Str("path", cfg.MetricsFile).Msg("metrics written")
	}
	return nil
}

// writeTriples prints one line per produced pair.
func writeTriples(w io.Writer, outcomes []transcript.Outcome) error {
	for _, o := range outcomes {
		if !o.Produced() {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%t\n", o.Result.Present, o.Result.Past, o.Result.Regular); err != nil {
			return err
		}
	}
	return nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Transcribing verb pairs...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}
