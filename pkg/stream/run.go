// Package stream implements the memory-bandwidth benchmark core: buffer
// allocation, partitioning, the four kernels, per-worker execution on
// locked OS threads, post-run validation, and bandwidth aggregation.
package stream

import (
	"fmt"
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/perfkit/memstream/pkg/config"
	"github.com/perfkit/memstream/pkg/hrperf"
	"github.com/perfkit/memstream/pkg/placement"
)

// Run executes one benchmark run and returns the aggregated report. Any
// error — configuration, missing NUMA support, or a validation mismatch —
// is terminal for the run; there are no retries.
func Run(cfg *config.Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.NUMANodes) > 0 {
		// Stricter than the affinity fallback on purpose: NUMA placement
		// that cannot be honored fails before any buffer is allocated.
		if err := placement.NUMAAvailable(); err != nil {
			return nil, fmt.Errorf("NUMA binding requested: %w", err)
		}
	}
	if len(cfg.CPUs) > 0 {
		if err := placement.VerifyCPUs(cfg.CPUs); err != nil {
			log.Printf("warning: %v", err)
		}
	}
	warnIfOversized(cfg)

	if cfg.Element == config.Float32 {
		return run[float32](cfg)
	}
	return run[float64](cfg)
}

func run[F constraints.Float](cfg *config.Config) (*Report, error) {
	arrays, err := allocateArrays[F](cfg)
	if err != nil {
		return nil, err
	}
	parts := SplitIndex(cfg.ArraySize, cfg.Threads)

	var iters []int
	if !cfg.RuntimeMode() {
		iters = SplitIterations(cfg.Iterations, cfg.Threads)
	}

	results := make([]Result, cfg.Threads)
	var sharedPasses atomic.Int64

	hook := hrperf.Hook(hrperf.Noop())
	if cfg.Profile {
		h, err := hrperf.Load()
		if err != nil {
			log.Printf("profiling hook disabled: %v", err)
		} else {
			hook = h
		}
	}

	hook.Start()
	// The start instant is captured once, strictly before any worker
	// spawns, and handed to each worker by value.
	start := time.Now()

	var g errgroup.Group
	for i := range parts {
		w := &worker[F]{
			id:           i,
			arrays:       arrays,
			part:         parts[i],
			op:           cfg.Operation,
			scalar:       F(cfg.Scalar),
			deadline:     cfg.Runtime,
			start:        start,
			cpus:         cfg.CPUs,
			nodes:        cfg.NUMANodes,
			sharedPasses: &sharedPasses,
		}
		if iters != nil {
			w.iterations = iters[i]
		}
		res := &results[i]
		g.Go(func() error {
			return w.run(res)
		})
	}
	// The join is the sole barrier: no aggregation, no buffer reuse before
	// every worker is done.
	err = g.Wait()
	hook.Pause()
	if err != nil {
		return nil, err
	}

	return aggregate(cfg, results, sharedPasses.Load()), nil
}

// allocateArrays creates and initializes the shared buffers. When NUMA
// binding was requested, the allocating thread's memory policy is bound
// first: the init loop then first-touches every buffer page under that
// policy, which is what actually places the data on the requested nodes.
// The per-worker bind that follows only covers workers' own allocations.
func allocateArrays[F constraints.Float](cfg *config.Config) (*Arrays[F], error) {
	if len(cfg.NUMANodes) == 0 {
		return NewArrays[F](cfg.ArraySize), nil
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := placement.BindMemory(cfg.NUMANodes); err != nil {
		return nil, fmt.Errorf("NUMA bind for buffer allocation: %w", err)
	}
	return NewArrays[F](cfg.ArraySize), nil
}

func aggregate(cfg *config.Config, results []Result, sharedTotal int64) *Report {
	var elapsed float64
	var totalBytes, localTotal int64
	for i := range results {
		if results[i].Completion > elapsed {
			elapsed = results[i].Completion
		}
		totalBytes += results[i].Bytes
		localTotal += results[i].Passes
	}

	rep := &Report{
		RunID:          uuid.NewString(),
		Operation:      cfg.Operation,
		Threads:        cfg.Threads,
		ArraySize:      cfg.ArraySize,
		Element:        cfg.Element,
		RuntimeMode:    cfg.RuntimeMode(),
		ElapsedSeconds: elapsed,
		TotalBytes:     totalBytes,
		BandwidthMBps:  float64(totalBytes) / 1e6 / elapsed,
		CPUAffinity:    cfg.CPUs,
		NUMANodes:      cfg.NUMANodes,
	}
	if cfg.RuntimeMode() {
		rep.RuntimeSeconds = cfg.Runtime
		rep.TotalIterations = localTotal
		if sharedTotal != localTotal {
			// Both tallies are written by the same workers before the
			// join, so a mismatch means a bookkeeping bug.
			log.Printf("warning: shared pass counter %d != summed local passes %d",
				sharedTotal, localTotal)
		}
	} else {
		rep.IterationsPerThread = cfg.Iterations / cfg.Threads
		rep.IterationsRemainder = cfg.Iterations % cfg.Threads
		rep.TotalIterations = int64(cfg.Iterations)
	}
	return rep
}

// warnIfOversized flags runs whose three buffers exceed available physical
// memory. Swapping turns a bandwidth benchmark into a disk benchmark, so
// the operator should know — but sizing is their call, so only warn.
func warnIfOversized(cfg *config.Config) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return
	}
	need := uint64(3 * cfg.ArraySize * cfg.Element.Size())
	if need > vm.Available {
		log.Printf("warning: buffers need %d MB but only %d MB of memory is available",
			need/1e6, vm.Available/1e6)
	}
}
