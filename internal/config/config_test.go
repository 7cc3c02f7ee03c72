package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surrealdb/crud-bench/internal/bench"
)

func validConfig() *Config {
	return &Config{
		Database: "map",
		Samples:  10,
		Clients:  1,
		Threads:  1,
		KeyType:  "integer",
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Database = "not-a-real-backend"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownKeyType(t *testing.T) {
	cfg := validConfig()
	cfg.KeyType = "not-a-key-type"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsMalformedBatchDescriptor(t *testing.T) {
	cfg := validConfig()
	cfg.Batches = []bench.BatchDescriptor{{Operation: "not-a-real-op", BatchSize: 1, Samples: 1}}
	assert.Error(t, cfg.Validate())
}

func TestParseScansRoundTrips(t *testing.T) {
	scans, err := ParseScans(`[{"name":"count_all","samples":10,"projection":"COUNT"}]`)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, "count_all", scans[0].Name)
	assert.Equal(t, bench.ProjectionCount, scans[0].Projection)
}

func TestParseScansEmptyStringIsNilNotError(t *testing.T) {
	scans, err := ParseScans("")
	require.NoError(t, err)
	assert.Nil(t, scans)
}

func TestEngineConfigTranslatesFields(t *testing.T) {
	cfg := validConfig()
	cfg.Random = true
	cfg.Value = `{"a": "int"}`
	ec := cfg.EngineConfig()
	assert.Equal(t, cfg.Samples, ec.Samples)
	assert.True(t, ec.Random)
	assert.Equal(t, cfg.Value, ec.ValueTemplate)
}
