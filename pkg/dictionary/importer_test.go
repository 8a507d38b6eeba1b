package dictionary

import (
	"strings"
	"testing"

	"github.com/japaniel/pastphon/pkg/db"
	"github.com/japaniel/pastphon/pkg/transcript"
	_ "github.com/mattn/go-sqlite3"
)

const cmuSample = `walk,ˈwɔk
walked,ˈwɔkt
want,ˈwɑnt
wanted,ˈwɑntʌd
want(1),ˈwɔnt
time,ˈtajm
lead,ˈlid
led,ˈlɛd
led,ˈlɛɛɛd

bad line without comma
burn, ˈbɚn
`

func TestParse(t *testing.T) {
	d, err := Parse(strings.NewReader(cmuSample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if d.Len() != 8 {
		t.Errorf("expected 8 entries, got %d", d.Len())
	}
	if d.Variants != 1 {
		t.Errorf("expected 1 variant skipped, got %d", d.Variants)
	}
	if d.Malformed != 1 {
		t.Errorf("expected 1 malformed line, got %d", d.Malformed)
	}

	tests := []struct {
		spelling, want string
	}{
		{"walk", "wɔk"},
		{"wanted", "wɑntʌd"},
		{"want", "wɑnt"},  // primary entry, variant ignored
		{"time", "tajm"},  // diphthong left for the normalizer
		{"led", "lɛd"},    // first occurrence wins
		{"burn", "bɚn"},   // whitespace stripped
	}
	for _, tt := range tests {
		got, ok := d.Lookup(tt.spelling)
		if !ok {
			t.Errorf("Lookup(%q) missing", tt.spelling)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %q; want %q", tt.spelling, got, tt.want)
		}
	}

	if _, ok := d.Lookup("want(1)"); ok {
		t.Errorf("variant spelling should not be indexed")
	}
}

func TestImporterBackfillsSkippedPairs(t *testing.T) {
	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	sourceID, err := db.CreateOrGetSource(conn, "verb_list", "verbs.csv", "small.txt")
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	small := transcript.MapDictionary{"walk": "wɔk", "walked": "wɔkt", "want": "wɑnt"}
	pairs := []transcript.VerbPair{
		{Present: "walk", Past: "walked"},
		{Present: "want", Past: "wanted"},
		{Present: "go", Past: "went"},
	}
	for i, o := range transcript.Merge(pairs, small) {
		if _, err := db.SaveOutcome(conn, sourceID, i, o); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	big, err := Parse(strings.NewReader(cmuSample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	count, err := NewImporter(conn, big).ProcessUpdates()
	if err != nil {
		t.Fatalf("process updates: %v", err)
	}
	// "wanted" is now covered, "go"/"went" still is not.
	if count != 1 {
		t.Errorf("expected 1 update, got %d", count)
	}

	stored, err := db.GetVerbPairsBySource(conn, sourceID)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if stored[1].Status != string(transcript.StatusProduced) || stored[1].PastIPA != "wɑntɪd" {
		t.Errorf("unexpected backfilled row: %+v", stored[1])
	}
	if stored[2].Status != string(transcript.StatusMissingTranscription) {
		t.Errorf("go/went should remain skipped: %+v", stored[2])
	}
}
