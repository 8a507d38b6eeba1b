package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/japaniel/pastphon/pkg/config"
	"github.com/japaniel/pastphon/pkg/db"
	"github.com/japaniel/pastphon/pkg/dictionary"
	"github.com/japaniel/pastphon/pkg/logging"
	"github.com/japaniel/pastphon/pkg/transcript"
	"github.com/japaniel/pastphon/pkg/verbs"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

var errNoDatabase = errors.New("no database configured: set --db or database.path")

// openDatabase opens and migrates the configured database.
func openDatabase(cfg config.Config) (*sql.DB, error) {
	if cfg.DatabasePath == "" {
		return nil, errNoDatabase
	}
	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return conn, nil
}

// loadDictionary makes sure the dictionary file exists, downloading it when
// a url is configured, and parses it.
func loadDictionary(ctx context.Context, cfg config.Config) (*dictionary.Dictionary, error) {
	log := logging.WithComponent("cli")
	if err := dictionary.EnsureDictionary(ctx, cfg.DictionaryPath, cfg.DictionaryURL); err != nil {
		return nil, err
	}
	start := time.Now()
	dict, err := dictionary.LoadFile(cfg.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	log.Info().
		Str("path", cfg.DictionaryPath).
		Int("entries", dict.Len()).
		Int("variants_skipped", dict.Variants).
		Int("malformed", dict.Malformed).
		Dur("took", time.Since(start)).
		Msg("dictionary loaded")
	return dict, nil
}

func loadVerbs(cfg config.Config) ([]transcript.VerbPair, error) {
	pairs, err := verbs.LoadFile(cfg.VerbsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load verb list: %w", err)
	}
	log := logging.WithComponent("cli")
	log.Info().Str("path", cfg.VerbsPath).Int("pairs", len(pairs)).Msg("verb list loaded")
	return pairs, nil
}

// coverageOf rebuilds a coverage summary from stored rows.
func coverageOf(rows []db.VerbPair) transcript.Coverage {
	var c transcript.Coverage
	for _, r := range rows {
		c.Total++
		if transcript.Status(r.Status) != transcript.StatusProduced {
			c.Skipped++
			continue
		}
		c.Produced++
		if r.Regular {
			c.Regular++
		} else {
			c.Irregular++
		}
	}
	return c
}

func printSummary(w io.Writer, c transcript.Coverage) {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Coverage") + "\n")
	fmt.Fprintf(&b, "%-12s %d\n", "pairs", c.Total)
	fmt.Fprintf(&b, "%-12s %d (%.1f%%)\n", "produced", c.Produced, 100*c.Ratio())
	fmt.Fprintf(&b, "%-12s %d\n", "  regular", c.Regular)
	fmt.Fprintf(&b, "%-12s %d\n", "  irregular", c.Irregular)
	fmt.Fprintf(&b, "%-12s %d", "skipped", c.Skipped)
	fmt.Fprintln(w, summaryStyle.Render(b.String()))
}
