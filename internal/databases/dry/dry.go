// Package dry implements a no-op bench.Adapter: every operation succeeds
// immediately without touching any backend. It exists to exercise the
// engine's own phase-pipeline correctness independent of any
// real storage behavior.
package dry

import (
	"context"
	"time"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/keys"
	"github.com/surrealdb/crud-bench/internal/values"
)

// Adapter performs no I/O; every call returns instantly.
type Adapter struct {
	bench.UnsupportedBatches
}

// New creates a dry adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() string   { return "dry" }
func (a *Adapter) Blocking() bool { return false }

func (a *Adapter) Startup(context.Context, *values.Template, bench.StartupConfig) error { return nil }
func (a *Adapter) Shutdown(context.Context) error                                       { return nil }

func (a *Adapter) Create(context.Context, keys.Key, []byte) (time.Duration, error) { return 0, nil }
func (a *Adapter) Read(context.Context, keys.Key) (time.Duration, bool, error)      { return 0, true, nil }
func (a *Adapter) Update(context.Context, keys.Key, []byte) (time.Duration, error)  { return 0, nil }
func (a *Adapter) Delete(context.Context, keys.Key) (time.Duration, error)          { return 0, nil }

func (a *Adapter) Scan(_ context.Context, d bench.ScanDescriptor) (time.Duration, int, error) {
	if d.Expect != nil {
		return 0, *d.Expect, nil
	}
	return 0, 0, nil
}
