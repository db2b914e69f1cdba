package stream

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/perfkit/memstream/pkg/config"
)

// Report is the aggregated outcome of one run.
type Report struct {
	RunID     string           `json:"run_id"`
	Operation config.Operation `json:"operation"`
	Threads   int              `json:"threads"`
	ArraySize int64            `json:"array_size"`
	Element   config.Element   `json:"element"`

	RuntimeMode    bool    `json:"runtime_mode"`
	RuntimeSeconds float64 `json:"runtime_seconds,omitempty"`

	// IterationsPerThread is the fixed-mode base allocation; the first
	// IterationsRemainder workers run one pass more than that.
	IterationsPerThread int `json:"iterations_per_thread,omitempty"`
	IterationsRemainder int `json:"iterations_remainder,omitempty"`

	// TotalIterations is the requested count in fixed mode and the true
	// cross-worker total of completed passes in runtime mode.
	TotalIterations int64 `json:"total_iterations"`

	ElapsedSeconds float64 `json:"elapsed_seconds"`
	TotalBytes     int64   `json:"total_bytes"`
	BandwidthMBps  float64 `json:"bandwidth_mb_per_s"`

	CPUAffinity []int `json:"cpu_affinity,omitempty"`
	NUMANodes   []int `json:"numa_nodes,omitempty"`
}

// String renders the report in the benchmark's console format.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Operation: %s\n", r.Operation.Label())
	fmt.Fprintf(&sb, "Threads: %d\n", r.Threads)
	fmt.Fprintf(&sb, "Array size: %d\n", r.ArraySize)
	if r.RuntimeMode {
		fmt.Fprintf(&sb, "Runtime mode: %g seconds\n", r.RuntimeSeconds)
		fmt.Fprintf(&sb, "Total iterations completed: %d\n", r.TotalIterations)
	} else {
		fmt.Fprintf(&sb, "Iterations per thread: %d\n", r.IterationsPerThread)
		if r.IterationsRemainder > 0 {
			fmt.Fprintf(&sb, "Threads with one extra iteration: %d\n", r.IterationsRemainder)
		}
		fmt.Fprintf(&sb, "Total iterations: %d\n", r.TotalIterations)
	}
	fmt.Fprintf(&sb, "Elapsed time: %f seconds\n", r.ElapsedSeconds)
	fmt.Fprintf(&sb, "Bandwidth: %f MB/s\n", r.BandwidthMBps)
	if len(r.CPUAffinity) > 0 {
		fmt.Fprintf(&sb, "CPU affinity: %s\n", joinInts(r.CPUAffinity))
	}
	if len(r.NUMANodes) > 0 {
		fmt.Fprintf(&sb, "NUMA nodes: %s\n", joinInts(r.NUMANodes))
	}
	return sb.String()
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
