package stream

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfkit/memstream/pkg/config"
)

const n = 32

func TestKernels_DefiningEquations(t *testing.T) {
	const scalar = 3.0

	t.Run("copy", func(t *testing.T) {
		ar := NewArrays[float64](n)
		ar.Pass(config.Copy, 0, n, scalar)
		for j := range ar.C {
			assert.InDelta(t, ar.A[j], ar.C[j], epsilon, "index %d", j)
		}
	})

	t.Run("scale", func(t *testing.T) {
		ar := NewArrays[float64](n)
		ar.Pass(config.Scale, 0, n, scalar)
		for j := range ar.B {
			assert.InDelta(t, scalar*ar.C[j], ar.B[j], epsilon, "index %d", j)
		}
	})

	t.Run("add", func(t *testing.T) {
		ar := NewArrays[float64](n)
		ar.Pass(config.Add, 0, n, scalar)
		for j := range ar.C {
			assert.InDelta(t, ar.A[j]+ar.B[j], ar.C[j], epsilon, "index %d", j)
			assert.Equal(t, 3.0, ar.C[j], "1.0 + 2.0")
		}
	})

	t.Run("triad", func(t *testing.T) {
		ar := NewArrays[float64](n)
		ar.Pass(config.Triad, 0, n, scalar)
		for j := range ar.A {
			assert.InDelta(t, ar.B[j]+scalar*ar.C[j], ar.A[j], epsilon, "index %d", j)
		}
	})
}

func TestKernels_EquationsHoldAfterRepeatedPasses(t *testing.T) {
	for _, op := range []config.Operation{config.Copy, config.Scale, config.Add, config.Triad} {
		ar := NewArrays[float64](n)
		for i := 0; i < 5; i++ {
			ar.Pass(op, 0, n, 2.0)
		}
		w := &worker[float64]{arrays: ar, part: Partition{0, n}, op: op, scalar: 2.0}
		assert.NoError(t, w.validate(), "op %s", op)
	}
}

func TestKernels_Float32(t *testing.T) {
	ar := NewArrays[float32](n)
	ar.Pass(config.Triad, 0, n, 3.0)
	for j := range ar.A {
		assert.InDelta(t, float64(ar.B[j])+3.0*float64(ar.C[j]), float64(ar.A[j]), epsilon)
	}
}

func TestKernels_PartialRangeOnly(t *testing.T) {
	ar := NewArrays[float64](n)
	ar.Pass(config.Copy, 8, 16, 0)
	for j := int64(0); j < n; j++ {
		if j >= 8 && j < 16 {
			assert.Equal(t, 1.0, ar.C[j], "inside range, index %d", j)
		} else {
			assert.Equal(t, 0.0, ar.C[j], "outside range, index %d", j)
		}
	}
}

func TestValidate_ReportsIndexAndOperands(t *testing.T) {
	ar := NewArrays[float64](n)
	ar.Pass(config.Copy, 0, n, 0)
	ar.C[5] = 42.0

	w := &worker[float64]{arrays: ar, part: Partition{0, n}, op: config.Copy}
	err := w.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 5")
	assert.Contains(t, err.Error(), "42")
	assert.Contains(t, err.Error(), "1")
}

func TestValidate_ToleratesSmallError(t *testing.T) {
	ar := NewArrays[float64](n)
	ar.Pass(config.Copy, 0, n, 0)
	ar.C[3] += epsilon * 0.5

	w := &worker[float64]{arrays: ar, part: Partition{0, n}, op: config.Copy}
	assert.NoError(t, w.validate())
}

func TestValidate_OnlyOwnPartition(t *testing.T) {
	ar := NewArrays[float64](n)
	ar.Pass(config.Copy, 0, 16, 0)
	// [16,n) was never written and would fail validation, but it belongs
	// to a different worker.
	w := &worker[float64]{arrays: ar, part: Partition{0, 16}, op: config.Copy}
	assert.NoError(t, w.validate())

	other := &worker[float64]{arrays: ar, part: Partition{16, n}, op: config.Copy}
	assert.Error(t, other.validate())
}

func TestNewArrays_InitialState(t *testing.T) {
	ar := NewArrays[float64](4)
	assert.Equal(t, []float64{1, 1, 1, 1}, ar.A)
	assert.Equal(t, []float64{2, 2, 2, 2}, ar.B)
	assert.Equal(t, []float64{0, 0, 0, 0}, ar.C)
	assert.True(t, math.Abs(ar.A[0]-initA) == 0)
}
