package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/japaniel/pastphon/pkg/db"
	"github.com/japaniel/pastphon/pkg/transcript"
)

// failingPool always returns an error on Submit to simulate producer error.
type failingPool struct{}

func (f *failingPool) Start(ctx context.Context) {}
func (f *failingPool) Submit(job Job) error      { return errors.New("submit failed") }
func (f *failingPool) SubmitCtx(ctx context.Context, job Job) error {
	return errors.New("submit failed")
}
func (f *failingPool) Close() {}

func TestIngestHandlesSubmitErrorClosesResultCh(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	sourceID, err := db.CreateOrGetSource(conn, "verb_list", "submit_error.csv", "")
	if err != nil {
		t.Fatal(err)
	}

	pairs := make([]transcript.VerbPair, 10)
	for i := range pairs {
		pairs[i] = transcript.VerbPair{Present: "walk", Past: "walked"}
	}

	ingester := NewIngester(conn)
	ingester.PoolFactory = func(workers, queue int) WorkerPoolInterface { return &failingPool{} }

	done := make(chan error, 1)
	go func() {
		_, err := ingester.Ingest(context.Background(), sourceID, pairs, testDict)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected submit error, got nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Ingest did not return after submit error")
	}

	idx, err := db.GetSourceProgress(conn, sourceID)
	if err != nil {
		t.Fatal(err)
	}
	if idx != -1 {
		t.Fatalf("expected no checkpoint, got %d", idx)
	}
}
