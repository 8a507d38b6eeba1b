package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/japaniel/pastphon/pkg/config"
	"github.com/japaniel/pastphon/pkg/db"
	"github.com/japaniel/pastphon/pkg/transcript"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verbList = `Word,3rd person,ing form,Past,Past participle
walk,walks,walking,walked,walked
want,wants,wanting,wanted,wanted
go,goes,going,went,gone
lead,leads,leading,led,led
`

const cmuFixture = `walk,ˈwɔk
walked,ˈwɔkt
want,ˈwɑnt
wanted,ˈwɑntʌd
want(1),ˈwɔnt
go,ˈgow
lead,ˈlid
led,ˈlɛd
`

const wantTriples = "wɔk\twɔkt\ttrue\n" +
	"wɑnt\twɑntɪd\ttrue\n" +
	"lid\tlɛd\tfalse\n"

// fixtures writes the verb list and dictionary into a temp dir.
func fixtures(t *testing.T) (dir, verbsPath, dictPath string) {
	dir = t.TempDir()
	verbsPath = filepath.Join(dir, "verbs.csv")
	dictPath = filepath.Join(dir, "cmu.txt")
	require.NoError(t, os.WriteFile(verbsPath, []byte(verbList), 0o644))
	require.NoError(t, os.WriteFile(dictPath, []byte(cmuFixture), 0o644))
	return dir, verbsPath, dictPath
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd(viper.New())
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pastphon dev\n", out)
}

func TestTranscribePrintsTriples(t *testing.T) {
	_, verbsPath, dictPath := fixtures(t)

	out, stderr, err := execute(t, "transcribe", "--verbs", verbsPath, "--dictionary", dictPath)
	require.NoError(t, err)
	assert.Equal(t, wantTriples, out)
	assert.Contains(t, stderr, "Coverage")
}

func TestTranscribeFromEnvironment(t *testing.T) {
	_, verbsPath, dictPath := fixtures(t)
	t.Setenv("PASTPHON_VERBS_PATH", verbsPath)
	t.Setenv("PASTPHON_DICTIONARY_PATH", dictPath)

	out, _, err := execute(t, "transcribe")
	require.NoError(t, err)
	assert.Equal(t, wantTriples, out)
}

func TestTranscribeDownloadsDictionary(t *testing.T) {
	dir, verbsPath, _ := fixtures(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(cmuFixture))
	}))
	defer srv.Close()

	dictPath := filepath.Join(dir, "downloaded.txt")
	out, _, err := execute(t, "transcribe",
		"--verbs", verbsPath,
		"--dictionary", dictPath,
		"--dictionary-url", srv.URL+"/cmu.txt")
	require.NoError(t, err)
	assert.Equal(t, wantTriples, out)
	assert.FileExists(t, dictPath)
}

func TestTranscribeMissingDictionary(t *testing.T) {
	dir, verbsPath, _ := fixtures(t)
	_, _, err := execute(t, "transcribe", "--verbs", verbsPath, "--dictionary", filepath.Join(dir, "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no download url")
}

func TestTranscribeIntoDatabaseAndBackfill(t *testing.T) {
	dir, verbsPath, dictPath := fixtures(t)
	dbPath := filepath.Join(dir, "pastphon.db")
	metricsPath := filepath.Join(dir, "pastphon.prom")

	out, _, err := execute(t, "transcribe",
		"--verbs", verbsPath,
		"--dictionary", dictPath,
		"--db", dbPath,
		"--workers", "2",
		"--batch-size", "1",
		"--metrics-file", metricsPath,
		"--no-progress")
	require.NoError(t, err)
	assert.Empty(t, out)

	metricsText, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metricsText), `pastphon_verb_pairs_total{status="produced"} 3`)

	conn, err := db.Open(dbPath)
	require.NoError(t, err)
	counts, err := db.CountByStatus(conn, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[transcript.StatusProduced])
	assert.Equal(t, 1, counts[transcript.StatusMissingTranscription])
	require.NoError(t, conn.Close())

	// A second run resumes after the last stored pair.
	_, _, err = execute(t, "transcribe", "--verbs", verbsPath, "--dictionary", dictPath, "--db", dbPath, "--no-progress")
	require.NoError(t, err)

	fuller := filepath.Join(dir, "fuller.txt")
	require.NoError(t, os.WriteFile(fuller, []byte(cmuFixture+"went,ˈwɛnt\n"), 0o644))
	out, _, err = execute(t, "backfill", "--db", dbPath, "--dictionary", fuller)
	require.NoError(t, err)
	assert.Equal(t, "Backfilled 1 verb pairs.\n", out)

	conn, err = db.Open(dbPath)
	require.NoError(t, err)
	defer conn.Close()
	rows, err := db.GetVerbPairsBySource(conn, 1)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "gO", rows[2].PresentIPA)
	assert.Equal(t, "wɛnt", rows[2].PastIPA)

	// The stored segmentation of the backfilled pair is readable back.
	out, _, err = execute(t, "profile", "--db", dbPath, "--pair", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "go/went (produced)")
	assert.Contains(t, out, "wɛnt")
	var fields [][]string
	for _, line := range strings.Split(out, "\n") {
		fields = append(fields, strings.Fields(line))
	}
	assert.Contains(t, fields, []string{"3", "t", "0", "3"})

	_, _, err = execute(t, "profile", "--db", dbPath, "--pair", "9")
	assert.Error(t, err)
	_, _, err = execute(t, "profile", "--db", dbPath, "--pair", "0", "ˈwɔk")
	assert.Error(t, err)
}

func TestMigrate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "m.db")
	out, _, err := execute(t, "migrate", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Database initialized at "+dbPath)
	assert.FileExists(t, dbPath)

	_, _, err = execute(t, "migrate")
	assert.ErrorIs(t, err, errNoDatabase)
}

func TestFeatures(t *testing.T) {
	out, _, err := execute(t, "features", "pa", "ɡ")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"p", "0", "0", "1", "0", "0", "0", "0", "0", "0", "0"}, strings.Fields(lines[1]))
	assert.Equal(t, "a", strings.Fields(lines[2])[0])
	assert.Equal(t, "12", strings.Fields(lines[2])[1])
	assert.Equal(t, []string{"ɡ", "-", "-", "0", "0", "0", "0", "0", "0", "0", "0"}, strings.Fields(lines[3]))

	out, _, err = execute(t, "features")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 1+107)
}

func TestProfile(t *testing.T) {
	out, _, err := execute(t, "profile", "ˈtajm")
	require.NoError(t, err)
	assert.Contains(t, out, "tYm")

	_, _, err = execute(t, "profile")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	root := newRootCmd(viper.New())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"version", "--log-format", "xml"})
	err := root.Execute()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
