// Package config holds the benchmark's run configuration: the flat struct
// parsed from CLI flags (with environment-variable fallbacks for the
// larger JSON blobs), its validation, and the translation into the
// bench package's narrower EngineConfig.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/keys"
)

// Config is the benchmark's full run configuration.
type Config struct {
	Name       string
	Database   string
	Image      string
	Privileged bool
	Endpoint   string
	Sync       bool
	Optimised  bool
	Blocking   int
	Workers    int
	Clients    int
	Threads    int
	Samples    int
	Random     bool
	Seed       uint64
	KeyType    string
	Value      string
	ShowSample bool
	PID        int
	Scans      []bench.ScanDescriptor
	Batches    []bench.BatchDescriptor
}

// ValidDatabases lists every backend name the factory recognizes.
var ValidDatabases = []string{
	"dry", "map", "postgres", "mysql", "redis", "mongodb", "badger",
}

// ParseScans parses the JSON array passed to -a/--scans.
func ParseScans(scansJSON string) ([]bench.ScanDescriptor, error) {
	if scansJSON == "" {
		return nil, nil
	}
	var scans []bench.ScanDescriptor
	if err := json.Unmarshal([]byte(scansJSON), &scans); err != nil {
		return nil, fmt.Errorf("failed to parse scans JSON: %w", err)
	}
	return scans, nil
}

// ParseBatches parses the JSON array passed to --batches.
func ParseBatches(batchesJSON string) ([]bench.BatchDescriptor, error) {
	if batchesJSON == "" {
		return nil, nil
	}
	var batches []bench.BatchDescriptor
	if err := json.Unmarshal([]byte(batchesJSON), &batches); err != nil {
		return nil, fmt.Errorf("failed to parse batches JSON: %w", err)
	}
	return batches, nil
}

// Validate checks the configuration for internal consistency before any
// adapter is started or phase run, so malformed input always exits with
// the configuration-error exit code rather than failing mid-run.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	validDB := false
	for _, db := range ValidDatabases {
		if c.Database == db {
			validDB = true
			break
		}
	}
	if !validDB {
		return fmt.Errorf("invalid database: %s", c.Database)
	}

	if c.Samples < 0 {
		return fmt.Errorf("samples must be >= 0")
	}
	if !keys.Valid(c.KeyType) {
		return fmt.Errorf("invalid key type: %s", c.KeyType)
	}
	if c.Clients < 1 {
		return fmt.Errorf("clients must be >= 1")
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be >= 1")
	}
	for _, b := range c.Batches {
		switch b.Operation {
		case bench.BatchCreate, bench.BatchRead, bench.BatchUpdate, bench.BatchDelete:
		default:
			return fmt.Errorf("invalid batch operation: %s", b.Operation)
		}
		if b.BatchSize < 1 {
			return fmt.Errorf("batch %q: batch_size must be >= 1", b.Operation)
		}
		if b.Samples < 1 {
			return fmt.Errorf("batch %q: samples must be >= 1", b.Operation)
		}
	}

	return nil
}

// EngineConfig translates the flat CLI configuration into the narrower
// shape the benchmark engine consumes.
func (c *Config) EngineConfig() bench.EngineConfig {
	return bench.EngineConfig{
		Samples:       c.Samples,
		Clients:       c.Clients,
		Threads:       c.Threads,
		Blocking:      c.Blocking,
		Workers:       c.Workers,
		KeyType:       keys.Type(c.KeyType),
		Random:        c.Random,
		Seed:          c.Seed,
		ValueTemplate: c.Value,
		Scans:         c.Scans,
		Batches:       c.Batches,
		Sync:          c.Sync,
		Optimised:     c.Optimised,
		Endpoint:      c.Endpoint,
		Image:         c.Image,
		Privileged:    c.Privileged,
	}
}
