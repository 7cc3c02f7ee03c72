package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/histogram"
)

func TestFromSnapshotsComputesThroughputAndLatency(t *testing.T) {
	hist := histogram.New()
	hist.Record(5 * time.Millisecond)
	hist.Record(10 * time.Millisecond)

	snaps := []bench.Snapshot{
		{
			Name:    "create",
			Kind:    "create",
			Count:   2,
			Success: 2,
			Elapsed: time.Second,
			Latency: hist.Stats(),
		},
	}

	phases := FromSnapshots(snaps)
	require.Len(t, phases, 1)
	assert.Equal(t, "create", phases[0].Name)
	assert.Equal(t, float64(2), phases[0].Throughput)
	assert.Greater(t, phases[0].P50Us, int64(0))
}

func TestPrintTableIncludesSkippedMarker(t *testing.T) {
	phases := []PhaseResult{{Name: "create_batch", Kind: "batch", Skipped: true}}
	out := PrintTable(phases)
	assert.True(t, strings.Contains(out, "create_batch"))
	assert.True(t, strings.Contains(out, "skipped"))
}
