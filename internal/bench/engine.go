// Package bench implements the benchmark engine: the phase pipeline, the
// C-clients-by-T-threads work-distribution fabric, and the latency
// recording that together make up the harness's measurement core.
package bench

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/surrealdb/crud-bench/internal/bench/workerpool"
	"github.com/surrealdb/crud-bench/internal/keys"
	"github.com/surrealdb/crud-bench/internal/values"
)

// EngineConfig is the subset of run configuration the engine needs to
// parameterize the phase pipeline and work-distribution fabric. It is
// assembled by internal/config from CLI flags and environment variables.
type EngineConfig struct {
	Samples  int
	Clients  int
	Threads  int
	Blocking int
	Workers  int

	KeyType keys.Type
	Random  bool
	Seed    uint64

	ValueTemplate string

	Scans   []ScanDescriptor
	Batches []BatchDescriptor

	Sync       bool
	Optimised  bool
	Endpoint   string
	Image      string
	Privileged bool
}

// Engine owns the phase pipeline and the dispatch channel / worker pools
// shared across phases. It holds no mutable domain state beyond phase
// progress counters and the shared work queue.
type Engine struct {
	adapter Adapter
	cfg     EngineConfig
	logger  zerolog.Logger

	keyProvider *keys.Provider
	template    *values.Template

	blockingPool *workerpool.Pool
	workerPool   *workerpool.Pool

	records []*Record
}

// New builds an Engine, parsing the key encoding and value template once
// into immutable descriptors. Parse failures are configuration errors and
// must abort before any phase runs.
func New(adapter Adapter, cfg EngineConfig, logger zerolog.Logger) (*Engine, error) {
	provider, err := keys.NewProvider(cfg.KeyType, cfg.Samples, cfg.Random, cfg.Seed)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	tmpl, err := values.Parse(cfg.ValueTemplate)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	for _, bd := range cfg.Batches {
		if bd.BatchSize*bd.Samples > cfg.Samples {
			return nil, &ConfigError{Err: fmt.Errorf("batch descriptor needs %d keys but only %d samples are configured", bd.BatchSize*bd.Samples, cfg.Samples)}
		}
	}

	return &Engine{
		adapter:      adapter,
		cfg:          cfg,
		logger:       logger,
		keyProvider:  provider,
		template:     tmpl,
		blockingPool: workerpool.New(cfg.Blocking),
		workerPool:   workerpool.New(cfg.Workers),
	}, nil
}

// poolFor returns the pool this run's adapter should execute on.
func (e *Engine) poolFor() *workerpool.Pool {
	if e.adapter.Blocking() {
		return e.blockingPool
	}
	return e.workerPool
}

// Run drives the fixed phase order create -> read -> update -> scans ->
// batches -> delete, with a full phase barrier between each.
// On any fatal error the run stops immediately; the phase records
// accumulated so far are still returned.
func (e *Engine) Run(ctx context.Context) ([]Snapshot, error) {
	if err := e.adapter.Startup(ctx, e.template, StartupConfig{
		Endpoint:   e.cfg.Endpoint,
		Image:      e.cfg.Image,
		Privileged: e.cfg.Privileged,
		Sync:       e.cfg.Sync,
		Optimised:  e.cfg.Optimised,
	}); err != nil {
		return nil, &AdapterStartupError{Err: err}
	}
	defer func() {
		shutdownCtx := context.Background()
		if err := e.adapter.Shutdown(shutdownCtx); err != nil {
			e.logger.Error().Err(err).Msg("adapter shutdown failed")
		}
	}()

	phases := []struct {
		kind OpKind
		run  func(context.Context) error
	}{
		{OpCreate, func(ctx context.Context) error { return e.runCRUDPhase(ctx, OpCreate) }},
		{OpRead, func(ctx context.Context) error { return e.runCRUDPhase(ctx, OpRead) }},
		{OpUpdate, func(ctx context.Context) error { return e.runCRUDPhase(ctx, OpUpdate) }},
		{"scans", e.runScans},
		{"batches", e.runBatches},
		{OpDelete, func(ctx context.Context) error { return e.runCRUDPhase(ctx, OpDelete) }},
	}

	for _, phase := range phases {
		e.logger.Info().Str("phase", string(phase.kind)).Msg("phase starting")
		if err := phase.run(ctx); err != nil {
			return e.snapshots(), err
		}
		e.logger.Info().Str("phase", string(phase.kind)).Msg("phase complete")
	}

	return e.snapshots(), nil
}

func (e *Engine) snapshots() []Snapshot {
	out := make([]Snapshot, len(e.records))
	for i, r := range e.records {
		out[i] = r.freeze()
	}
	return out
}

func (e *Engine) newRecord(name, kind string) *Record {
	r := newRecord(name, kind)
	e.records = append(e.records, r)
	return r
}

// OpKind identifies a CRUD phase.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpRead   OpKind = "read"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// guardCancelled reports whether ctx ended for a genuine deadline/cancel
// reason, used to distinguish an external timeout from a plain completion.
func guardCancelled(ctx context.Context) bool {
	return ctx.Err() != nil
}
