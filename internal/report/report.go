// Package report turns a completed run's phase snapshots into the
// human-readable table and the structured JSON result file whose name
// incorporates the backend and run name.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/sysinfo"
)

// PhaseResult is the JSON-serializable shape of one phase's outcome.
type PhaseResult struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"`
	Count      int64   `json:"count"`
	Success    int64   `json:"success"`
	Errors     int64   `json:"errors"`
	Skipped    bool    `json:"skipped"`
	ElapsedMs  float64 `json:"elapsed_ms"`
	Throughput float64 `json:"throughput_ops_sec"`
	MeanUs     int64   `json:"mean_us"`
	P50Us      int64   `json:"p50_us"`
	P95Us      int64   `json:"p95_us"`
	P99Us      int64   `json:"p99_us"`
	P999Us     int64   `json:"p999_us"`
	MaxUs      int64   `json:"max_us"`
}

// Result is the full structured record for one benchmark run.
type Result struct {
	Database   string             `json:"database"`
	Name       string             `json:"name,omitempty"`
	Samples    int                `json:"samples"`
	Clients    int                `json:"clients"`
	Threads    int                `json:"threads"`
	Sync       bool               `json:"sync"`
	Optimised  bool               `json:"optimised"`
	Duration   string             `json:"duration"`
	Phases     []PhaseResult      `json:"phases"`
	ProcessInfo *sysinfo.Sample   `json:"process_info,omitempty"`
}

// FromSnapshots converts the engine's raw phase snapshots into the
// serializable result shape.
func FromSnapshots(snaps []bench.Snapshot) []PhaseResult {
	out := make([]PhaseResult, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, PhaseResult{
			Name:       s.Name,
			Kind:       s.Kind,
			Count:      s.Count,
			Success:    s.Success,
			Errors:     s.Errors,
			Skipped:    s.Skipped,
			ElapsedMs:  float64(s.Elapsed.Microseconds()) / 1000,
			Throughput: s.Throughput(),
			MeanUs:     s.Latency.Mean.Microseconds(),
			P50Us:      s.Latency.P50.Microseconds(),
			P95Us:      s.Latency.P95.Microseconds(),
			P99Us:      s.Latency.P99.Microseconds(),
			P999Us:     s.Latency.P999.Microseconds(),
			MaxUs:      s.Latency.Max.Microseconds(),
		})
	}
	return out
}

// PrintTable renders a human-readable summary table and returns it as a
// string.
func PrintTable(phases []PhaseResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %8s %8s %8s %10s %10s %10s %10s\n",
		"PHASE", "COUNT", "OK", "ERRORS", "OPS/SEC", "P50(us)", "P99(us)", "MAX(us)")
	for _, p := range phases {
		status := ""
		if p.Skipped {
			status = " (skipped)"
		}
		fmt.Fprintf(&b, "%-16s %8d %8d %8d %10.1f %10d %10d %10d%s\n",
			p.Name, p.Count, p.Success, p.Errors, p.Throughput, p.P50Us, p.P99Us, p.MaxUs, status)
	}
	return b.String()
}

// Write assembles the full structured result and writes it to a JSON file
// named results-<backend>[-<name>]-<timestamp>.json in the current
// directory, returning the path written.
func Write(database, name string, samples, clients, threads int, sync, optimised bool, duration time.Duration, phases []PhaseResult, proc *sysinfo.Sample) (string, error) {
	result := Result{
		Database:    database,
		Name:        name,
		Samples:     samples,
		Clients:     clients,
		Threads:     threads,
		Sync:        sync,
		Optimised:   optimised,
		Duration:    duration.String(),
		Phases:      phases,
		ProcessInfo: proc,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}

	filename := fmt.Sprintf("results-%s-%s.json", database, timestamp())
	if name != "" {
		filename = fmt.Sprintf("results-%s-%s-%s.json", database, name, timestamp())
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results file: %w", err)
	}
	return filename, nil
}

func timestamp() string { return time.Now().Format("20060102-150405") }
