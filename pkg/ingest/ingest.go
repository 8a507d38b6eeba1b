package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/japaniel/pastphon/pkg/db"
	"github.com/japaniel/pastphon/pkg/logging"
	"github.com/japaniel/pastphon/pkg/metrics"
	"github.com/japaniel/pastphon/pkg/phoneme"
	"github.com/japaniel/pastphon/pkg/transcript"
	"github.com/rs/zerolog"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Ingester transcribes verb pairs and stores them, with their phoneme
// features, in the database.
type Ingester struct {
	DB        *sql.DB
	BatchSize int
	Logger    zerolog.Logger
	// OnProgress is called with the number of pairs handed to the writer and the total.
	OnProgress func(current, total int)

	// Concurrency settings
	Workers int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface

	// Metrics, when set, observes every committed outcome in pair order.
	Metrics *metrics.Coverage
}

// Result counts the pairs committed by one Ingest call.
type Result struct {
	Produced int
	Skipped  int
}

// Total is Produced + Skipped.
func (r Result) Total() int { return r.Produced + r.Skipped }

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB) *Ingester {
	return &Ingester{
		DB:        conn,
		BatchSize: 50,
		Workers:   4,
		Logger:    logging.WithComponent("ingest"),
	}
}

// processedPair is a worker's output for the pair at Index.
type processedPair struct {
	Index    int
	Outcome  transcript.Outcome
	Segments int
}

// pendingOutcomes holds the outcomes handed to the writer, in pair order,
// until the batch carrying them commits.
type pendingOutcomes struct {
	mu      sync.Mutex
	queue   []transcript.Outcome
	res     Result
	metrics *metrics.Coverage
}

func (p *pendingOutcomes) push(o transcript.Outcome) {
	p.mu.Lock()
	p.queue = append(p.queue, o)
	p.mu.Unlock()
}

// commit counts the oldest n pending outcomes.
func (p *pendingOutcomes) commit(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > len(p.queue) {
		n = len(p.queue)
	}
	for _, o := range p.queue[:n] {
		if o.Produced() {
			p.res.Produced++
		} else {
			p.res.Skipped++
		}
		if p.metrics != nil {
			p.metrics.Observe(o)
		}
	}
	p.queue = p.queue[n:]
}

func (p *pendingOutcomes) result() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.res
}

// Ingest transcribes pairs against dict and persists every outcome with
// its position. Progress is checkpointed per pair on the source, and a
// later call with the same sourceID resumes after the checkpoint.
func (ig *Ingester) Ingest(ctx context.Context, sourceID int64, pairs []transcript.VerbPair, dict transcript.Dictionary) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	logger := logging.WithSource(ig.Logger, sourceID)
	lastProcessed, err := db.GetSourceProgress(ig.DB, sourceID)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to retrieve progress")
		lastProcessed = -1
	}
	if lastProcessed >= 0 {
		logger.Info().
			Int("skipping", lastProcessed+1).
			Msg("resuming ingest")
	}

	total := len(pairs)
	startIdx := lastProcessed + 1
	if startIdx >= total {
		return Result{}, nil
	}
	batchSize := ig.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	start := time.Now()
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(ig.Workers, ig.Workers*2)
	} else {
		wp = NewWorkerPool(ig.Workers, ig.Workers*2)
	}
	resultCh := make(chan processedPair, ig.Workers*2)
	doneCh := make(chan error, 1)

	pending := &pendingOutcomes{metrics: ig.Metrics}
	bw := NewBatchWriter(ig.DB, batchSize, 100*time.Millisecond)
	bw.OnCommit = pending.commit

	var shutdown sync.Once
	stop := func() {
		shutdown.Do(func() {
			wp.Close()
			close(resultCh)
		})
	}
	defer func() {
		stop()
		_ = bw.Close()
	}()

	wp.Start(ctx)

	go func() {
		defer close(doneCh)
		buffer := make(map[int]processedPair)
		next := startIdx
		for {
			select {
			case <-ctx.Done():
				doneCh <- ctx.Err()
				return
			case res, ok := <-resultCh:
				if !ok {
					doneCh <- nil
					return
				}
				buffer[res.Index] = res
				for {
					item, ok := buffer[next]
					if !ok {
						break
					}
					delete(buffer, next)
					pending.push(item.Outcome)
					if err := bw.Submit(writePair(logger, sourceID, item)); err != nil {
						cancel()
						doneCh <- err
						return
					}
					next++
					if ig.OnProgress != nil && (next%batchSize == 0 || next == total) {
						ig.OnProgress(next, total)
					}
				}
			}
		}
	}()

Loop:
	for i := startIdx; i < total; i++ {
		idx := i
		pair := pairs[i]

		job := func(ctx context.Context) error {
			o := transcript.TranscribePair(pair, dict)
			res := processedPair{Index: idx, Outcome: o}
			if o.Produced() {
				res.Segments = len(phoneme.Segment(o.Result.Present)) + len(phoneme.Segment(o.Result.Past))
			}
			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		}

		if err := wp.SubmitCtx(ctx, job); err != nil {
			if err == ctx.Err() || err == ErrPoolClosed {
				break Loop
			}
			return Result{}, fmt.Errorf("submit pair %d: %w", idx, err)
		}
	}

	// All workers have returned once stop completes, so the consumer sees a
	// closed channel only after the last result.
	stop()
	consumerErr := <-doneCh

	if err := bw.Close(); err != nil && consumerErr == nil {
		consumerErr = err
	}
	if consumerErr == nil {
		consumerErr = parent.Err()
	}

	res := pending.result()
	if ig.Metrics != nil {
		ig.Metrics.ObserveRun(start)
	}
	if consumerErr != nil {
		return res, consumerErr
	}
	logger.Info().
		Int("produced", res.Produced).
		Int("skipped", res.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("ingest complete")
	return res, nil
}

// writePair persists one processed pair and checkpoints its index.
func writePair(logger zerolog.Logger, sourceID int64, item processedPair) WriteFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		if _, err := db.SaveOutcome(tx, sourceID, item.Index, item.Outcome); err != nil {
			return fmt.Errorf("failed to persist pair %d (%s): %w", item.Index, item.Outcome.Pair.Present, err)
		}
		if err := db.AdvanceSourceProgress(tx, sourceID, item.Index); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		if item.Outcome.Produced() {
			logger.Debug().
				Int("position", item.Index).
				Str("present", item.Outcome.Result.Present).
				Str("past", item.Outcome.Result.Past).
				Int("segments", item.Segments).
				Msg("pair stored")
		} else {
			logger.Debug().
				Int("position", item.Index).
				Strs("missing", item.Outcome.Missing).
				Msg("pair skipped")
		}
		return nil
	}
}
