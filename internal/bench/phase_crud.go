package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/surrealdb/crud-bench/internal/histogram"
	"github.com/surrealdb/crud-bench/internal/values"
)

// runCRUDPhase drives one of create/read/update/delete across every
// dispatch position [0, Samples). A single producer goroutine feeds sample
// indices onto a bounded FIFO channel in dispatch order; Clients*Threads
// workers pull from it, so the channel is the one place dispatch order is
// decided -- a single logical work queue with many consumers.
func (e *Engine) runCRUDPhase(ctx context.Context, kind OpKind) error {
	n := e.keyProvider.Len()
	record := e.newRecord(string(kind), string(kind))
	if n == 0 {
		record.freeze()
		return nil
	}

	workers := e.cfg.Clients * e.cfg.Threads
	if workers < 1 {
		workers = 1
	}

	positions := make(chan int, workers)
	grp, gctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		defer close(positions)
		for i := 0; i < n; i++ {
			select {
			case positions <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		threadID := w
		grp.Go(func() error {
			local := histogram.New()
			defer record.mergeLatency(local)

			for {
				pos, ok := <-positions
				if !ok {
					return nil
				}
				if err := e.poolFor().Go(gctx, func() error {
					return e.runOne(gctx, kind, pos, threadID, local, record)
				}); err != nil {
					return err
				}
			}
		})
	}

	err := grp.Wait()
	record.freeze()
	if err != nil && guardCancelled(ctx) {
		return &TimeoutError{Err: err}
	}
	return err
}

// runOne performs a single CRUD call for dispatch position pos and records
// its outcome. Ordinary adapter errors are counted and logged, not
// propagated -- a phase only aborts on context cancellation.
func (e *Engine) runOne(ctx context.Context, kind OpKind, pos, threadID int, local *histogram.Recorder, record *Record) error {
	key, err := e.keyProvider.At(pos)
	if err != nil {
		return err
	}
	record.addCount(1)

	seed := values.Seed{SampleIndex: pos, Phase: string(kind), ThreadID: threadID}

	var (
		elapsed time.Duration
		opErr   error
	)
	switch kind {
	case OpCreate:
		payload, jerr := json.Marshal(e.template.Generate(seed))
		if jerr != nil {
			return jerr
		}
		elapsed, opErr = e.adapter.Create(ctx, key, payload)
	case OpRead:
		d, _, err := e.adapter.Read(ctx, key)
		elapsed, opErr = d, err
	case OpUpdate:
		payload, jerr := json.Marshal(e.template.Generate(seed))
		if jerr != nil {
			return jerr
		}
		elapsed, opErr = e.adapter.Update(ctx, key, payload)
	case OpDelete:
		elapsed, opErr = e.adapter.Delete(ctx, key)
	default:
		return fmt.Errorf("bench: unknown phase kind %q", kind)
	}

	if opErr != nil {
		record.addError(1)
		e.logger.Warn().Str("phase", string(kind)).Str("key", key.String()).Err(opErr).Msg("operation failed")
		return nil
	}
	record.addSuccess(1)
	local.Record(elapsed)
	return nil
}
