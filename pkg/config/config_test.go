package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Copy, cfg.Operation)
	assert.Equal(t, 3.0, cfg.Scalar)
	assert.Equal(t, 1, cfg.Threads)
	assert.Equal(t, int64(10_000_000), cfg.ArraySize)
	assert.Equal(t, 10, cfg.Iterations)
	assert.Equal(t, Float64, cfg.Element)
	assert.False(t, cfg.RuntimeMode())
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown_operation", func(c *Config) { c.Operation = "foo" }},
		{"zero_threads", func(c *Config) { c.Threads = 0 }},
		{"negative_threads", func(c *Config) { c.Threads = -4 }},
		{"zero_array_size", func(c *Config) { c.ArraySize = 0 }},
		{"zero_iterations", func(c *Config) { c.Iterations = 0 }},
		{"negative_runtime", func(c *Config) { c.Runtime = -1.5 }},
		{"bad_element", func(c *Config) { c.Element = "float16" }},
		{"negative_cpu", func(c *Config) { c.CPUs = []int{0, -1} }},
		{"negative_numa_node", func(c *Config) { c.NUMANodes = []int{-2} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_RuntimeModeIgnoresIterations(t *testing.T) {
	cfg := Default()
	cfg.Runtime = 2.5
	cfg.Iterations = 0 // must not matter in runtime mode
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.RuntimeMode())
}

func TestOperation(t *testing.T) {
	assert.Equal(t, 2, Copy.ArraysAccessed())
	assert.Equal(t, 2, Scale.ArraysAccessed())
	assert.Equal(t, 3, Add.ArraysAccessed())
	assert.Equal(t, 3, Triad.ArraysAccessed())
	assert.Equal(t, 0, Operation("foo").ArraysAccessed())

	assert.Equal(t, "Triad", Triad.Label())
	assert.False(t, Operation("foo").Valid())
}

func TestElementSize(t *testing.T) {
	assert.Equal(t, int64(4), Float32.Size())
	assert.Equal(t, int64(8), Float64.Size())
}

func TestParseIntList(t *testing.T) {
	ids, err := ParseIntList("0,2, 4,6")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4, 6}, ids)

	ids, err = ParseIntList("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseIntList("0,x,2")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.yaml")
	data := []byte("operation: triad\nthreads: 4\narray_size: 5000\nscalar: 2.5\ncpus: [0, 2]\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Triad, cfg.Operation)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, int64(5000), cfg.ArraySize)
	assert.Equal(t, 2.5, cfg.Scalar)
	assert.Equal(t, []int{0, 2}, cfg.CPUs)
	// untouched fields keep defaults
	assert.Equal(t, 10, cfg.Iterations)
	assert.Equal(t, Float64, cfg.Element)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
