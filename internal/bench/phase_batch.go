package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/surrealdb/crud-bench/internal/histogram"
	"github.com/surrealdb/crud-bench/internal/keys"
	"github.com/surrealdb/crud-bench/internal/values"
)

// runBatches executes every configured batch descriptor. A descriptor
// partitions [0, BatchSize*Samples) into Samples consecutive batches of
// BatchSize dispatch positions each (batch_size=64, samples=16 covers
// positions [0,1024)).
func (e *Engine) runBatches(ctx context.Context) error {
	for _, descriptor := range e.cfg.Batches {
		if err := e.runOneBatch(ctx, descriptor); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) runOneBatch(ctx context.Context, descriptor BatchDescriptor) error {
	record := e.newRecord(descriptor.Name(), "batch")

	samples := descriptor.Samples
	if samples < 1 {
		samples = 1
	}
	batchSize := descriptor.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	grp, gctx := errgroup.WithContext(ctx)

	for b := 0; b < samples; b++ {
		batchIndex := b
		grp.Go(func() error {
			local := histogram.New()
			defer record.mergeLatency(local)

			start := batchIndex * batchSize
			batchKeys, payloads, err := e.buildBatch(descriptor, start, batchSize)
			if err != nil {
				return err
			}

			record.addCount(1)
			return e.poolFor().Go(gctx, func() error {
				elapsed, err := e.dispatchBatch(gctx, descriptor, batchKeys, payloads)
				if err == ErrUnsupported {
					record.markSkipped()
					record.addSuccess(1)
					return nil
				}
				if err != nil {
					record.addError(1)
					e.logger.Warn().Str("batch", descriptor.Name()).Err(err).Msg("batch failed")
					return nil
				}
				record.addSuccess(1)
				local.Record(elapsed)
				return nil
			})
		})
	}

	err := grp.Wait()
	record.freeze()
	if err != nil && guardCancelled(ctx) {
		return &TimeoutError{Err: err}
	}
	return err
}

// buildBatch materializes the keys (and, for write operations, freshly
// generated values) for one batch's consecutive dispatch-position range
// [start, start+size).
func (e *Engine) buildBatch(descriptor BatchDescriptor, start, size int) ([]keys.Key, [][]byte, error) {
	batchKeys := make([]keys.Key, size)
	for i := 0; i < size; i++ {
		key, err := e.keyProvider.At(start + i)
		if err != nil {
			return nil, nil, err
		}
		batchKeys[i] = key
	}

	if descriptor.Operation != BatchCreate && descriptor.Operation != BatchUpdate {
		return batchKeys, nil, nil
	}

	phase := descriptor.Name()
	payloads := make([][]byte, size)
	for i := 0; i < size; i++ {
		seed := values.Seed{SampleIndex: start + i, Phase: phase, ThreadID: 0}
		payload, err := json.Marshal(e.template.Generate(seed))
		if err != nil {
			return nil, nil, err
		}
		payloads[i] = payload
	}
	return batchKeys, payloads, nil
}

// dispatchBatch calls the adapter batch method matching descriptor's
// operation, returning the elapsed duration the adapter measured.
func (e *Engine) dispatchBatch(ctx context.Context, descriptor BatchDescriptor, batchKeys []keys.Key, payloads [][]byte) (time.Duration, error) {
	switch descriptor.Operation {
	case BatchCreate:
		return e.adapter.BatchCreate(ctx, batchKeys, payloads)
	case BatchRead:
		d, _, err := e.adapter.BatchRead(ctx, batchKeys)
		return d, err
	case BatchUpdate:
		return e.adapter.BatchUpdate(ctx, batchKeys, payloads)
	case BatchDelete:
		return e.adapter.BatchDelete(ctx, batchKeys)
	default:
		return 0, fmt.Errorf("bench: unknown batch operation %q", descriptor.Operation)
	}
}
