// Package sysinfo samples resource usage for an external process id.
// Used for --pid.
package sysinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/process"
)

// Sample is a single point-in-time resource-usage reading for one process.
type Sample struct {
	PID        int32   `json:"pid"`
	CPUPercent float64 `json:"cpu_percent"`
	RSSBytes   uint64  `json:"rss_bytes"`
	NumFDs     int32   `json:"num_fds"`
}

// Read reads CPU%, RSS, and open-file-descriptor count for pid. Returns
// an error if the process cannot be inspected (e.g. it has already exited).
func Read(pid int) (*Sample, error) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("sysinfo: process %d not found: %w", pid, err)
	}

	cpu, err := proc.Percent(0)
	if err != nil {
		return nil, fmt.Errorf("sysinfo: failed to read cpu usage: %w", err)
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		return nil, fmt.Errorf("sysinfo: failed to read memory info: %w", err)
	}

	var rss uint64
	if mem != nil {
		rss = mem.RSS
	}

	fds, err := proc.NumFDs()
	if err != nil {
		// Not all platforms support FD counting; degrade gracefully.
		fds = -1
	}

	return &Sample{PID: int32(pid), CPUPercent: cpu, RSSBytes: rss, NumFDs: fds}, nil
}
