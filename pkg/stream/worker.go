package stream

import (
	"fmt"
	"log"
	"math"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/exp/constraints"

	"github.com/perfkit/memstream/pkg/config"
	"github.com/perfkit/memstream/pkg/placement"
)

// Result is one worker's outcome, produced once and consumed once by the
// aggregator after the join.
type Result struct {
	// Completion is this worker's finish time in seconds since the shared
	// start instant.
	Completion float64

	// Passes is the number of kernel passes this worker actually executed
	// over its own partition.
	Passes int64

	// Bytes is the memory traffic this worker generated:
	// Passes × arraysAccessed × partitionLen × elementSize. Summing these
	// per-worker values is exact even when workers complete differing pass
	// counts, which a globally shared counter cannot distinguish.
	Bytes int64
}

// worker runs one partition on a locked OS thread.
type worker[F constraints.Float] struct {
	id     int
	arrays *Arrays[F]
	part   Partition
	op     config.Operation
	scalar F

	iterations int // fixed mode pass budget for this worker

	deadline float64 // seconds; > 0 selects runtime mode
	start    time.Time

	cpus  []int
	nodes []int

	// sharedPasses counts one increment per pass across all workers in
	// runtime mode. Advisory only: reported, never used in the bandwidth
	// computation.
	sharedPasses *atomic.Int64
}

// run drives the worker through Placing, Running, Completing, Validating.
func (w *worker[F]) run(res *Result) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	w.place()

	var passes int64
	if w.deadline > 0 {
		for {
			w.arrays.Pass(w.op, w.part.Start, w.part.End, w.scalar)
			passes++
			w.sharedPasses.Add(1)
			// A pass always completes once started; the deadline is only
			// checked between passes.
			if time.Since(w.start).Seconds() >= w.deadline {
				break
			}
		}
	} else {
		for i := 0; i < w.iterations; i++ {
			w.arrays.Pass(w.op, w.part.Start, w.part.End, w.scalar)
		}
		passes = int64(w.iterations)
	}

	res.Completion = time.Since(w.start).Seconds()
	res.Passes = passes
	res.Bytes = passes * int64(w.op.ArraysAccessed()) * w.part.Len() *
		int64(unsafe.Sizeof(*new(F)))

	if passes == 0 {
		// Nothing was written to this partition, so the kernel equations
		// cannot hold over it yet.
		return nil
	}
	return w.validate()
}

// place applies CPU affinity and NUMA binding requests. Best effort:
// failures are reported and the run continues. (Requesting NUMA on a
// platform without support was already rejected before allocation.)
func (w *worker[F]) place() {
	if len(w.cpus) > 0 {
		cpuID := placement.CPUForWorker(w.cpus, w.id)
		if err := placement.PinThread(cpuID); err != nil {
			log.Printf("worker %d: failed to set CPU affinity to %d: %v", w.id, cpuID, err)
		}
	}
	if len(w.nodes) > 0 {
		if err := placement.BindMemory(w.nodes); err != nil {
			log.Printf("worker %d: failed to bind NUMA nodes %v: %v", w.id, w.nodes, err)
		}
	}
}

const epsilon = 1e-6

// validate rescans this worker's own partition and checks the kernel's
// defining equality elementwise within an absolute tolerance.
func (w *worker[F]) validate() error {
	a, b, c := w.arrays.A, w.arrays.B, w.arrays.C
	s := w.scalar
	switch w.op {
	case config.Copy:
		for j := w.part.Start; j < w.part.End; j++ {
			if math.Abs(float64(c[j]-a[j])) > epsilon {
				return fmt.Errorf("validation failed at index %d: c[%d]=%v != a[%d]=%v",
					j, j, c[j], j, a[j])
			}
		}
	case config.Scale:
		for j := w.part.Start; j < w.part.End; j++ {
			if math.Abs(float64(b[j]-s*c[j])) > epsilon {
				return fmt.Errorf("validation failed at index %d: b[%d]=%v != scalar*c[%d]=%v",
					j, j, b[j], j, s*c[j])
			}
		}
	case config.Add:
		for j := w.part.Start; j < w.part.End; j++ {
			if math.Abs(float64(c[j]-(a[j]+b[j]))) > epsilon {
				return fmt.Errorf("validation failed at index %d: c[%d]=%v != a[%d]+b[%d]=%v",
					j, j, c[j], j, j, a[j]+b[j])
			}
		}
	case config.Triad:
		for j := w.part.Start; j < w.part.End; j++ {
			if math.Abs(float64(a[j]-(b[j]+s*c[j]))) > epsilon {
				return fmt.Errorf("validation failed at index %d: a[%d]=%v != b[%d]+scalar*c[%d]=%v",
					j, j, a[j], j, j, b[j]+s*c[j])
			}
		}
	}
	return nil
}
