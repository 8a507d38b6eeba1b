package verbs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/japaniel/pastphon/pkg/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Word,3rd person,ing form,Past,Past participle
 walk , walks, walking, walked , walked
see,sees,seeing,saw,seen
feed,feeds,feeding,fed,fed
,,,,
set up,sets up,setting up,set up,set up
`

func TestParse(t *testing.T) {
	pairs, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, []transcript.VerbPair{
		{Present: "walk", Past: "walked"},
		{Present: "see", Past: "saw"},
		{Present: "feed", Past: "fed"},
		{Present: "setup", Past: "setup"},
	}, pairs)
}

func TestParseHeaderOnly(t *testing.T) {
	pairs, err := Parse(strings.NewReader("Word,a,b,Past\n"))
	require.NoError(t, err)
	assert.Empty(t, pairs)

	pairs, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestParseShortRow(t *testing.T) {
	_, err := Parse(strings.NewReader("Word,a,b,Past\nwalk,walks,walking,walked\nrun,runs\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShortRow))

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Line)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verbs.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	pairs, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, pairs, 4)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
