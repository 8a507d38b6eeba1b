// Package config loads pastphon settings from viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/japaniel/pastphon/pkg/logging"
	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved configuration of a run.
type Config struct {
	VerbsPath      string
	DictionaryPath string
	DictionaryURL  string
	DatabasePath   string
	Workers        int
	BatchSize      int
	MetricsFile    string
	Logging        logging.Config
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbs.path", "most-common-verbs-english.csv")
	v.SetDefault("dictionary.path", "CMU.in.IPA.txt")
	v.SetDefault("dictionary.url", "")
	v.SetDefault("database.path", "")
	v.SetDefault("ingest.workers", 4)
	v.SetDefault("ingest.batch_size", 50)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load resolves a Config from v, expanding ~ and environment variables in
// paths, and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		VerbsPath:      ExpandPath(v.GetString("verbs.path")),
		DictionaryPath: ExpandPath(v.GetString("dictionary.path")),
		DictionaryURL:  v.GetString("dictionary.url"),
		DatabasePath:   ExpandPath(v.GetString("database.path")),
		Workers:        v.GetInt("ingest.workers"),
		BatchSize:      v.GetInt("ingest.batch_size"),
		MetricsFile:    ExpandPath(v.GetString("metrics.textfile")),
		Logging: logging.Config{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: ingest.workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: ingest.batch_size must be at least 1, got %d", ErrInvalidConfig, c.BatchSize)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	return os.ExpandEnv(path)
}
