package stream

import "github.com/perfkit/memstream/pkg/config"

// The four kernels. Each is a single full pass over [start,end) of this
// worker's partition. The noinline directive keeps every invocation an
// opaque unit of work: without it the compiler may fuse or hoist repeated
// passes and the per-iteration memory traffic the benchmark exists to
// generate disappears.

//go:noinline
func (ar *Arrays[F]) copyKernel(start, end int64) {
	for j := start; j < end; j++ {
		ar.C[j] = ar.A[j]
	}
}

//go:noinline
func (ar *Arrays[F]) scaleKernel(start, end int64, scalar F) {
	for j := start; j < end; j++ {
		ar.B[j] = scalar * ar.C[j]
	}
}

//go:noinline
func (ar *Arrays[F]) addKernel(start, end int64) {
	for j := start; j < end; j++ {
		ar.C[j] = ar.A[j] + ar.B[j]
	}
}

//go:noinline
func (ar *Arrays[F]) triadKernel(start, end int64, scalar F) {
	for j := start; j < end; j++ {
		ar.A[j] = ar.B[j] + scalar*ar.C[j]
	}
}

// Pass runs one full pass of op over [start,end).
func (ar *Arrays[F]) Pass(op config.Operation, start, end int64, scalar F) {
	switch op {
	case config.Copy:
		ar.copyKernel(start, end)
	case config.Scale:
		ar.scaleKernel(start, end, scalar)
	case config.Add:
		ar.addKernel(start, end)
	case config.Triad:
		ar.triadKernel(start, end, scalar)
	}
}
