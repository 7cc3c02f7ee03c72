// Package mapdb implements the bench.Adapter contract over an in-process
// sync.Map, with every batch variant also supported. It exists for fast,
// dependency-free engine-correctness testing, not as a
// benchmarking target in its own right.
package mapdb

import (
	"context"
	"sync"
	"time"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/keys"
	"github.com/surrealdb/crud-bench/internal/values"
)

// Adapter stores every record in a sync.Map keyed by the key's string form.
type Adapter struct {
	store sync.Map // string -> []byte
	count int64
	mu    sync.Mutex
}

// New creates an empty map adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() string   { return "map" }
func (a *Adapter) Blocking() bool { return false }

func (a *Adapter) Startup(context.Context, *values.Template, bench.StartupConfig) error { return nil }
func (a *Adapter) Shutdown(context.Context) error                                       { return nil }

func (a *Adapter) Create(_ context.Context, key keys.Key, value []byte) (time.Duration, error) {
	_, loaded := a.store.LoadOrStore(key.String(), value)
	if !loaded {
		a.mu.Lock()
		a.count++
		a.mu.Unlock()
	} else {
		a.store.Store(key.String(), value)
	}
	return time.Microsecond, nil
}

func (a *Adapter) Read(_ context.Context, key keys.Key) (time.Duration, bool, error) {
	_, ok := a.store.Load(key.String())
	return time.Microsecond, ok, nil
}

func (a *Adapter) Update(_ context.Context, key keys.Key, value []byte) (time.Duration, error) {
	a.store.Store(key.String(), value)
	return time.Microsecond, nil
}

func (a *Adapter) Delete(_ context.Context, key keys.Key) (time.Duration, error) {
	if _, ok := a.store.LoadAndDelete(key.String()); ok {
		a.mu.Lock()
		a.count--
		a.mu.Unlock()
	}
	return time.Microsecond, nil
}

func (a *Adapter) Scan(_ context.Context, d bench.ScanDescriptor) (time.Duration, int, error) {
	if d.Projection == bench.ProjectionCount {
		a.mu.Lock()
		n := a.count
		a.mu.Unlock()
		return time.Microsecond, int(n), nil
	}

	count := 0
	skipped := 0
	a.store.Range(func(_, _ interface{}) bool {
		if d.Start > 0 && skipped < d.Start {
			skipped++
			return true
		}
		count++
		return d.Limit <= 0 || count < d.Limit
	})
	return time.Microsecond, count, nil
}

func (a *Adapter) BatchCreate(ctx context.Context, batchKeys []keys.Key, values [][]byte) (time.Duration, error) {
	start := time.Now()
	for i, k := range batchKeys {
		if _, err := a.Create(ctx, k, values[i]); err != nil {
			return time.Since(start), err
		}
	}
	return time.Since(start), nil
}

func (a *Adapter) BatchRead(ctx context.Context, batchKeys []keys.Key) (time.Duration, int, error) {
	start := time.Now()
	found := 0
	for _, k := range batchKeys {
		_, ok, err := a.Read(ctx, k)
		if err != nil {
			return time.Since(start), found, err
		}
		if ok {
			found++
		}
	}
	return time.Since(start), found, nil
}

func (a *Adapter) BatchUpdate(ctx context.Context, batchKeys []keys.Key, values [][]byte) (time.Duration, error) {
	start := time.Now()
	for i, k := range batchKeys {
		if _, err := a.Update(ctx, k, values[i]); err != nil {
			return time.Since(start), err
		}
	}
	return time.Since(start), nil
}

func (a *Adapter) BatchDelete(ctx context.Context, batchKeys []keys.Key) (time.Duration, error) {
	start := time.Now()
	for _, k := range batchKeys {
		if _, err := a.Delete(ctx, k); err != nil {
			return time.Since(start), err
		}
	}
	return time.Since(start), nil
}
