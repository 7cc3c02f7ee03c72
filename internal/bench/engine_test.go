package bench

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/surrealdb/crud-bench/internal/keys"
	"github.com/surrealdb/crud-bench/internal/values"
)

// fakeAdapter is a minimal in-memory Adapter used only to exercise the
// engine's phase pipeline; it is not a stand-in for any real backend.
type fakeAdapter struct {
	UnsupportedBatches
	mu    sync.Mutex
	store map[string][]byte

	failRead bool
	scanN    int
}

func newFakeAdapter() *fakeAdapter { return &fakeAdapter{store: map[string][]byte{}} }

func (f *fakeAdapter) Name() string     { return "fake" }
func (f *fakeAdapter) Blocking() bool   { return false }
func (f *fakeAdapter) Startup(context.Context, *values.Template, StartupConfig) error { return nil }
func (f *fakeAdapter) Shutdown(context.Context) error                                { return nil }

func (f *fakeAdapter) Create(_ context.Context, k keys.Key, v []byte) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[k.String()] = v
	return time.Microsecond, nil
}

func (f *fakeAdapter) Read(_ context.Context, k keys.Key) (time.Duration, bool, error) {
	if f.failRead {
		return 0, false, errFakeRead
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.store[k.String()]
	return time.Microsecond, ok && v != nil, nil
}

func (f *fakeAdapter) Update(_ context.Context, k keys.Key, v []byte) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[k.String()] = v
	return time.Microsecond, nil
}

func (f *fakeAdapter) Delete(_ context.Context, k keys.Key) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.store, k.String())
	return time.Microsecond, nil
}

func (f *fakeAdapter) Scan(_ context.Context, d ScanDescriptor) (time.Duration, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return time.Microsecond, f.scanN, nil
}

var errFakeRead = &AssertionError{Err: errNotFound}
var errNotFound = fakeErr("not found")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func testEngine(t *testing.T, adapter Adapter, cfg EngineConfig) *Engine {
	t.Helper()
	if cfg.Clients == 0 {
		cfg.Clients = 2
	}
	if cfg.Threads == 0 {
		cfg.Threads = 2
	}
	if cfg.Blocking == 0 {
		cfg.Blocking = 4
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.KeyType == "" {
		cfg.KeyType = keys.TypeInteger
	}
	if cfg.ValueTemplate == "" {
		cfg.ValueTemplate = `{"id": "uuid", "name": "string:16"}`
	}
	e, err := New(adapter, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestRunCoversEveryCRUDPhaseExactlyOncePerSample(t *testing.T) {
	adapter := newFakeAdapter()
	e := testEngine(t, adapter, EngineConfig{Samples: 16})

	snaps, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	byKind := map[string]Snapshot{}
	for _, s := range snaps {
		byKind[s.Kind] = s
	}
	for _, kind := range []string{"create", "read", "update", "delete"} {
		s, ok := byKind[kind]
		if !ok {
			t.Fatalf("missing phase %q", kind)
		}
		if s.Count != 16 {
			t.Errorf("phase %q: count = %d, want 16", kind, s.Count)
		}
		if s.Errors != 0 {
			t.Errorf("phase %q: errors = %d, want 0", kind, s.Errors)
		}
		if s.Success != 16 {
			t.Errorf("phase %q: success = %d, want 16", kind, s.Success)
		}
	}
}

func TestScanExpectMismatchIsFatal(t *testing.T) {
	adapter := newFakeAdapter()
	adapter.scanN = 3
	expect := 99
	e := testEngine(t, adapter, EngineConfig{
		Samples: 4,
		Scans: []ScanDescriptor{
			{Name: "full", Samples: 2, Projection: ProjectionFull, Expect: &expect},
		},
	})

	_, err := e.Run(context.Background())
	if err == nil {
		t.Fatal("expected an assertion error, got nil")
	}
	if ExitCode(err) != 4 {
		t.Fatalf("ExitCode = %d, want 4 (assertion)", ExitCode(err))
	}
}

func TestBatchDescriptorCoversExactRange(t *testing.T) {
	adapter := newFakeAdapter()
	e := testEngine(t, adapter, EngineConfig{
		Samples: 1024,
		Batches: []BatchDescriptor{
			{Operation: BatchCreate, BatchSize: 64, Samples: 16},
		},
	})

	snaps, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var batchSnap *Snapshot
	for i := range snaps {
		if snaps[i].Kind == "batch" {
			batchSnap = &snaps[i]
		}
	}
	if batchSnap == nil {
		t.Fatal("no batch phase recorded")
	}
	if batchSnap.Count != 16 {
		t.Fatalf("batch invocation count = %d, want 16", batchSnap.Count)
	}
}

func TestUnsupportedBatchIsSkippedNotFatal(t *testing.T) {
	adapter := newFakeAdapter() // embeds UnsupportedBatches: every Batch* returns ErrUnsupported
	e := testEngine(t, adapter, EngineConfig{
		Samples: 64,
		Batches: []BatchDescriptor{
			{Operation: BatchRead, BatchSize: 8, Samples: 4},
		},
	})

	snaps, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, s := range snaps {
		if s.Kind != "batch" {
			continue
		}
		if !s.Skipped {
			t.Errorf("batch phase should be marked skipped")
		}
	}
}

func TestZeroSamplesProducesEmptyPhasesWithoutError(t *testing.T) {
	adapter := newFakeAdapter()
	e := testEngine(t, adapter, EngineConfig{Samples: 0})

	snaps, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, s := range snaps {
		if s.Kind == "batch" || s.Kind == "scan" {
			continue
		}
		if s.Count != 0 {
			t.Errorf("phase %q: count = %d, want 0", s.Kind, s.Count)
		}
	}
}
