package bench

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/surrealdb/crud-bench/internal/histogram"
)

// Record is one phase's accumulating state: total/success/error counters
// (written by many workers, so atomic) plus a merged latency histogram
// (each worker records into its own histogram and merges it here, under
// a mutex, once that worker has finished).
type Record struct {
	Name  string
	Kind  string // create, read, update, delete, scan, batch

	count   int64
	success int64
	errs    int64
	skipped int32

	mu      sync.Mutex
	hist    *histogram.Recorder
	started time.Time
	elapsed time.Duration
}

func newRecord(name, kind string) *Record {
	return &Record{Name: name, Kind: kind, hist: histogram.New(), started: time.Now()}
}

func (r *Record) addCount(n int64)   { atomic.AddInt64(&r.count, n) }
func (r *Record) addSuccess(n int64) { atomic.AddInt64(&r.success, n) }
func (r *Record) addError(n int64)   { atomic.AddInt64(&r.errs, n) }
func (r *Record) markSkipped()       { atomic.StoreInt32(&r.skipped, 1) }

// mergeLatency folds a worker-local histogram into the phase aggregate.
// Safe to call concurrently; the lock is only ever held for the duration
// of an in-memory merge.
func (r *Record) mergeLatency(h *histogram.Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hist.Merge(h)
}

// freeze stops the phase's wall clock and returns a read-only snapshot.
// Later calls keep the elapsed time measured by the first call.
func (r *Record) freeze() Snapshot {
	if r.elapsed == 0 {
		r.elapsed = time.Since(r.started)
	}
	return Snapshot{
		Name:    r.Name,
		Kind:    r.Kind,
		Count:   atomic.LoadInt64(&r.count),
		Success: atomic.LoadInt64(&r.success),
		Errors:  atomic.LoadInt64(&r.errs),
		Skipped: atomic.LoadInt32(&r.skipped) == 1,
		Elapsed: r.elapsed,
		Latency: r.hist.Stats(),
	}
}

// Snapshot is a frozen, read-only view of a completed phase record.
type Snapshot struct {
	Name    string
	Kind    string
	Count   int64
	Success int64
	Errors  int64
	Skipped bool
	Elapsed time.Duration
	Latency histogram.Stats
}

// Throughput returns successful operations per second over the phase's
// wall-clock duration.
func (s Snapshot) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Success) / s.Elapsed.Seconds()
}
