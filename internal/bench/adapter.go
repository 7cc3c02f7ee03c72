package bench

import (
	"context"
	"time"

	"github.com/surrealdb/crud-bench/internal/keys"
	"github.com/surrealdb/crud-bench/internal/values"
)

// Projection selects what a scan returns.
type Projection string

const (
	ProjectionID    Projection = "ID"
	ProjectionFull  Projection = "FULL"
	ProjectionCount Projection = "COUNT"
)

// ScanDescriptor configures one named scan phase-record.
type ScanDescriptor struct {
	Name       string            `json:"name"`
	Samples    int               `json:"samples"`
	Projection Projection        `json:"projection"`
	Start      int               `json:"start,omitempty"`
	Limit      int               `json:"limit,omitempty"`
	Expect     *int              `json:"expect,omitempty"`
	Condition  map[string]string `json:"condition,omitempty"`
}

// BatchOperation names which CRUD variant a batch descriptor exercises.
type BatchOperation string

const (
	BatchCreate BatchOperation = "create"
	BatchRead   BatchOperation = "read"
	BatchUpdate BatchOperation = "update"
	BatchDelete BatchOperation = "delete"
)

// BatchDescriptor configures one named batch phase-record.
type BatchDescriptor struct {
	Operation BatchOperation `json:"operation"`
	BatchSize int            `json:"batch_size"`
	Samples   int            `json:"samples"`
}

// Name returns a stable, human-readable identifier for this batch
// descriptor's phase record.
func (b BatchDescriptor) Name() string {
	return string(b.Operation) + "_batch"
}

// StartupConfig is the subset of run configuration an adapter needs to
// connect to (or open) its backend. It is the narrow pass-through surface
// for endpoint/image/privileged/sync/optimised.
type StartupConfig struct {
	Endpoint   string
	Image      string
	Privileged bool
	Sync       bool
	Optimised  bool
}

// Adapter is the capability set every backend must implement.
// Every operation method (Create through BatchDelete) returns the elapsed
// wall time the adapter
// itself measured around the backend call, so that the engine never adds
// its own dispatch overhead to the recorded latency.
type Adapter interface {
	// Name identifies this backend for logging and result records.
	Name() string

	// Blocking reports whether this adapter's calls are synchronous
	// (occupying a blocking-pool worker) as opposed to backed by a
	// non-blocking client library (running on the async worker pool).
	Blocking() bool

	// Startup establishes a connection (or opens an embedded store) and
	// creates whatever schema the template implies.
	Startup(ctx context.Context, tmpl *values.Template, cfg StartupConfig) error

	// Shutdown releases adapter-owned resources. An adapter that started
	// its own container during Startup also stops and removes it here.
	Shutdown(ctx context.Context) error

	Create(ctx context.Context, key keys.Key, value []byte) (time.Duration, error)
	Read(ctx context.Context, key keys.Key) (time.Duration, bool, error)
	Update(ctx context.Context, key keys.Key, value []byte) (time.Duration, error)
	Delete(ctx context.Context, key keys.Key) (time.Duration, error)

	// Scan executes descriptor once and returns the row count observed.
	Scan(ctx context.Context, descriptor ScanDescriptor) (time.Duration, int, error)

	// Batch variants are optional: an adapter that cannot realize one
	// returns ErrUnsupported, and the engine records that phase as
	// skipped rather than failing the run.
	BatchCreate(ctx context.Context, keys []keys.Key, values [][]byte) (time.Duration, error)
	BatchRead(ctx context.Context, keys []keys.Key) (time.Duration, int, error)
	BatchUpdate(ctx context.Context, keys []keys.Key, values [][]byte) (time.Duration, error)
	BatchDelete(ctx context.Context, keys []keys.Key) (time.Duration, error)
}

// UnsupportedBatches is embedded by adapters that do not implement any
// batch variant, so each adapter file only needs to override the ones it
// actually supports, without repeating the same four stub methods in
// every adapter.
type UnsupportedBatches struct{}

func (UnsupportedBatches) BatchCreate(context.Context, []keys.Key, [][]byte) (time.Duration, error) {
	return 0, ErrUnsupported
}

func (UnsupportedBatches) BatchRead(context.Context, []keys.Key) (time.Duration, int, error) {
	return 0, 0, ErrUnsupported
}

func (UnsupportedBatches) BatchUpdate(context.Context, []keys.Key, [][]byte) (time.Duration, error) {
	return 0, ErrUnsupported
}

func (UnsupportedBatches) BatchDelete(context.Context, []keys.Key) (time.Duration, error) {
	return 0, ErrUnsupported
}
