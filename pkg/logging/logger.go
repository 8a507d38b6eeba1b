// Package logging configures the zerolog logger shared by the pastphon
// commands. Log lines always go to stderr; stdout carries command output.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects the log level and output format.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console, json
}

// DefaultConfig is what the CLI uses before its config is loaded.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console"}
}

// Init installs the global logger on stderr.
func Init(cfg Config) {
	InitWithWriter(cfg, os.Stderr)
}

// InitWithWriter installs the global logger on out. An unknown or empty
// level means info.
func InitWithWriter(cfg Config, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// WithComponent returns a logger tagged with the subsystem writing to it,
// e.g. "cli", "ingest" or "dictionary".
func WithComponent(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// WithSource adds the id of the verb list source being processed.
func WithSource(l zerolog.Logger, sourceID int64) zerolog.Logger {
	return l.With().Int64("source_id", sourceID).Logger()
}
