// Package placement binds worker threads to CPUs and NUMA memory nodes.
//
// Both operations act on the calling OS thread, so callers must hold
// runtime.LockOSThread for a binding to mean anything. Platforms without a
// capability report ErrUnsupported at runtime instead of branching at
// compile time; the caller decides whether that is fatal (NUMA) or merely
// a warning (CPU affinity).
package placement

import (
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
)

// ErrUnsupported is returned where the platform lacks the capability.
var ErrUnsupported = errors.New("not supported on this platform")

// PinThread binds the calling OS thread to a single logical CPU.
func PinThread(cpuID int) error {
	return pinThread(cpuID)
}

// BindMemory restricts the calling thread's future memory allocations to
// the given NUMA nodes. Already-allocated memory is not relocated: binding
// after the shared buffers exist is a placement-intent signal, not a
// buffer-locality guarantee.
func BindMemory(nodes []int) error {
	return bindMemory(nodes)
}

// NUMAAvailable reports whether NUMA policy control is usable on this
// platform. Must be checked before any buffer allocation when NUMA
// binding was requested.
func NUMAAvailable() error {
	return numaAvailable()
}

// VerifyCPUs checks a requested CPU list against the machine's logical CPU
// count. The affinity syscall is the final arbiter; this only gives an
// early, human-readable diagnostic.
func VerifyCPUs(cpus []int) error {
	count, err := cpu.Counts(true)
	if err != nil {
		return fmt.Errorf("detect CPU count: %w", err)
	}
	for _, id := range cpus {
		if id >= count {
			return fmt.Errorf("cpu %d outside [0,%d)", id, count)
		}
	}
	return nil
}

// CPUForWorker selects the CPU for worker i: round-robin over the
// requested list, regardless of how many workers there are.
func CPUForWorker(cpus []int, i int) int {
	return cpus[i%len(cpus)]
}
