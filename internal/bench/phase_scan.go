package bench

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/surrealdb/crud-bench/internal/histogram"
)

// runScans executes every configured scan descriptor in turn. Descriptors
// run independently of each other (no shared dispatch channel -- a scan
// has no sample-index to distribute, just Samples repeated invocations of
// the same query), but the Samples invocations of a single descriptor are
// still spread across the worker pool.
func (e *Engine) runScans(ctx context.Context) error {
	for _, descriptor := range e.cfg.Scans {
		if err := e.runOneScan(ctx, descriptor); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) runOneScan(ctx context.Context, descriptor ScanDescriptor) error {
	record := e.newRecord(descriptor.Name, "scan")

	samples := descriptor.Samples
	if samples < 1 {
		samples = 1
	}

	grp, gctx := errgroup.WithContext(ctx)

	for i := 0; i < samples; i++ {
		grp.Go(func() error {
			local := histogram.New()
			defer record.mergeLatency(local)

			record.addCount(1)
			return e.poolFor().Go(gctx, func() error {
				elapsed, count, err := e.adapter.Scan(gctx, descriptor)
				if err == ErrUnsupported {
					record.markSkipped()
					record.addSuccess(1)
					return nil
				}
				if err != nil {
					record.addError(1)
					e.logger.Warn().Str("scan", descriptor.Name).Err(err).Msg("scan failed")
					return nil
				}
				if descriptor.Expect != nil && count != *descriptor.Expect {
					return &AssertionError{Err: fmt.Errorf(
						"scan %q: expected %d rows, got %d", descriptor.Name, *descriptor.Expect, count)}
				}
				record.addSuccess(1)
				local.Record(elapsed)
				return nil
			})
		})
	}

	err := grp.Wait()
	record.freeze()
	var assertionErr *AssertionError
	if errors.As(err, &assertionErr) {
		return assertionErr
	}
	if err != nil && guardCancelled(ctx) {
		return &TimeoutError{Err: err}
	}
	return err
}
