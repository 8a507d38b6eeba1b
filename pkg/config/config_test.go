package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, "most-common-verbs-english.csv", cfg.VerbsPath)
	assert.Equal(t, "CMU.in.IPA.txt", cfg.DictionaryPath)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.DatabasePath)
}

func TestLoadFromYAML(t *testing.T) {
	v := newViper()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
verbs:
  path: /data/verbs.csv
dictionary:
  url: https://example.com/cmu.txt.gz
ingest:
  workers: 8
logging:
  level: DEBUG
  format: json
`)))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "/data/verbs.csv", cfg.VerbsPath)
	assert.Equal(t, "https://example.com/cmu.txt.gz", cfg.DictionaryURL)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
		msg  string
	}{
		{"workers", "ingest.workers", 0, "ingest.workers"},
		{"batch size", "ingest.batch_size", -1, "ingest.batch_size"},
		{"level", "logging.level", "loud", "invalid log level"},
		{"format", "logging.format", "xml", "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.val)
			_, err := Load(v)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("PASTPHON_TEST_DIR", "/tmp/pp")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, filepath.Join(home, "x.db"), ExpandPath("~/x.db"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/tmp/pp/x.db", ExpandPath("$PASTPHON_TEST_DIR/x.db"))
	assert.Equal(t, "rel/x.db", ExpandPath("rel/x.db"))
}
