package stream

import "golang.org/x/exp/constraints"

// Initial buffer contents. Validation depends on these being known.
const (
	initA = 1.0
	initB = 2.0
	initC = 0.0
)

// Arrays is the shared store: three equal-length buffers allocated once by
// the orchestrator. Workers receive index ranges into these slices, never
// copies; the partitioner guarantees the ranges are disjoint, so there is
// no locking anywhere on this struct.
type Arrays[F constraints.Float] struct {
	A, B, C []F
}

// NewArrays allocates and initializes the three buffers (A=1.0, B=2.0,
// C=0.0).
func NewArrays[F constraints.Float](n int64) *Arrays[F] {
	ar := &Arrays[F]{
		A: make([]F, n),
		B: make([]F, n),
		C: make([]F, n),
	}
	for j := range ar.A {
		ar.A[j] = initA
		ar.B[j] = initB
		ar.C[j] = initC
	}
	return ar
}
