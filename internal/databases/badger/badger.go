// Package badger implements the bench.Adapter contract against an embedded
// BadgerDB LSM tree, standing in for the embedded backends (rocksdb, fjall,
// redb, surrealkv) the upstream project benchmarks but this pack has no
// direct Go driver for.
package badger

import (
	"context"
	"fmt"
	"os"
	"time"

	bdg "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/keys"
	"github.com/surrealdb/crud-bench/internal/values"
)

// Adapter implements bench.Adapter for an embedded BadgerDB store.
type Adapter struct {
	bench.UnsupportedBatches

	db   *bdg.DB
	dir  string
	sync bool
}

// New creates an unopened badger adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() string   { return "badger" }
func (a *Adapter) Blocking() bool { return true }

func (a *Adapter) Startup(ctx context.Context, tmpl *values.Template, cfg bench.StartupConfig) error {
	dir, err := os.MkdirTemp("", "crud-bench-badger-*")
	if err != nil {
		return fmt.Errorf("failed to create badger data dir: %w", err)
	}
	a.dir = dir
	a.sync = cfg.Sync

	opts := bdg.DefaultOptions(dir).
		WithCompression(options.Snappy).
		WithNumVersionsToKeep(1).
		WithSyncWrites(cfg.Sync).
		WithLogger(nil)

	db, err := bdg.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open badger: %w", err)
	}
	a.db = db
	return nil
}

func (a *Adapter) Shutdown(context.Context) error {
	var err error
	if a.db != nil {
		err = a.db.Close()
	}
	if a.dir != "" {
		_ = os.RemoveAll(a.dir)
	}
	return err
}

func (a *Adapter) Create(_ context.Context, key keys.Key, value []byte) (time.Duration, error) {
	start := time.Now()
	err := a.db.Update(func(txn *bdg.Txn) error {
		return txn.Set(key.Bytes, value)
	})
	return time.Since(start), err
}

func (a *Adapter) Read(_ context.Context, key keys.Key) (time.Duration, bool, error) {
	start := time.Now()
	var found bool
	err := a.db.View(func(txn *bdg.Txn) error {
		item, err := txn.Get(key.Bytes)
		if err == bdg.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func([]byte) error { return nil })
	})
	return time.Since(start), found, err
}

func (a *Adapter) Update(ctx context.Context, key keys.Key, value []byte) (time.Duration, error) {
	return a.Create(ctx, key, value)
}

func (a *Adapter) Delete(_ context.Context, key keys.Key) (time.Duration, error) {
	start := time.Now()
	err := a.db.Update(func(txn *bdg.Txn) error {
		return txn.Delete(key.Bytes)
	})
	return time.Since(start), err
}

func (a *Adapter) Scan(_ context.Context, d bench.ScanDescriptor) (time.Duration, int, error) {
	start := time.Now()
	count := 0
	err := a.db.View(func(txn *bdg.Txn) error {
		it := txn.NewIterator(bdg.DefaultIteratorOptions)
		defer it.Close()
		skipped := 0
		for it.Rewind(); it.Valid(); it.Next() {
			if d.Start > 0 && skipped < d.Start {
				skipped++
				continue
			}
			count++
			if d.Projection == bench.ProjectionFull {
				item := it.Item()
				if err := item.Value(func([]byte) error { return nil }); err != nil {
					return err
				}
			}
			if d.Limit > 0 && count >= d.Limit {
				break
			}
		}
		return nil
	})
	return time.Since(start), count, err
}
