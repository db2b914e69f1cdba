// Package config holds the run configuration for the memstream benchmark.
//
// Configuration Precedence (highest to lowest):
//  1. Command-line flags (-n, -s, -o, ...)
//  2. Config file (--config benchmark.yaml)
//  3. Built-in defaults
//
// A Config must pass Validate before any buffers are allocated; every
// configuration error is terminal for the process.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Operation is one of the four memory-bound array kernels.
type Operation string

const (
	Copy  Operation = "copy"
	Scale Operation = "scale"
	Add   Operation = "add"
	Triad Operation = "triad"
)

// Valid reports whether op names a known kernel.
func (op Operation) Valid() bool {
	switch op {
	case Copy, Scale, Add, Triad:
		return true
	}
	return false
}

// ArraysAccessed returns how many buffers a single pass of op touches.
// Copy and scale read one array and write another; add and triad read
// two and write a third.
func (op Operation) ArraysAccessed() int {
	switch op {
	case Copy, Scale:
		return 2
	case Add, Triad:
		return 3
	}
	return 0
}

// Label returns the capitalized operation name used in reports.
func (op Operation) Label() string {
	if op == "" {
		return ""
	}
	return strings.ToUpper(string(op[:1])) + string(op[1:])
}

// Element selects the buffer element type.
type Element string

const (
	Float32 Element = "float32"
	Float64 Element = "float64"
)

// Valid reports whether e names a supported element type.
func (e Element) Valid() bool {
	return e == Float32 || e == Float64
}

// Size returns the element size in bytes.
func (e Element) Size() int64 {
	if e == Float32 {
		return 4
	}
	return 8
}

// Config describes a single benchmark run. It is immutable once validated.
type Config struct {
	Operation Operation `yaml:"operation"`
	Scalar    float64   `yaml:"scalar"`
	Threads   int       `yaml:"threads"`
	ArraySize int64     `yaml:"array_size"`
	Element   Element   `yaml:"element"`

	// Iterations is the fixed-mode pass budget, shared across all workers.
	// Ignored when Runtime is set.
	Iterations int `yaml:"iterations"`

	// Runtime > 0 switches to runtime mode: workers run until this many
	// seconds have elapsed from the shared start instant.
	Runtime float64 `yaml:"runtime"`

	// CPUs pins worker i to CPUs[i mod len(CPUs)]. Best effort.
	CPUs []int `yaml:"cpus"`

	// NUMANodes binds each worker thread's future allocations to these
	// nodes. Requires platform NUMA support; hard failure without it.
	NUMANodes []int `yaml:"numa_nodes"`

	Profile bool `yaml:"profile"`
	Quiet   bool `yaml:"quiet"`
	JSON    bool `yaml:"json"`
}

// Default returns the built-in configuration, matching the benchmark's
// historical defaults.
func Default() *Config {
	return &Config{
		Operation:  Copy,
		Scalar:     3.0,
		Threads:    1,
		ArraySize:  10_000_000,
		Element:    Float64,
		Iterations: 10,
	}
}

// LoadFile reads a YAML config file over the built-in defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// RuntimeMode reports whether the run is wall-clock bounded.
func (c *Config) RuntimeMode() bool { return c.Runtime > 0 }

// Validate rejects every configuration error before any allocation.
func (c *Config) Validate() error {
	if !c.Operation.Valid() {
		return fmt.Errorf("unknown operation: %s", c.Operation)
	}
	if c.Threads < 1 {
		return fmt.Errorf("number of threads must be at least 1, got %d", c.Threads)
	}
	if c.ArraySize < 1 {
		return fmt.Errorf("array size must be at least 1, got %d", c.ArraySize)
	}
	if c.Runtime < 0 {
		return fmt.Errorf("runtime must be positive, got %g", c.Runtime)
	}
	if !c.RuntimeMode() && c.Iterations < 1 {
		return fmt.Errorf("number of iterations must be at least 1, got %d", c.Iterations)
	}
	if !c.Element.Valid() {
		return fmt.Errorf("unknown element type: %s", c.Element)
	}
	for _, id := range c.CPUs {
		if id < 0 {
			return fmt.Errorf("invalid CPU id: %d", id)
		}
	}
	for _, node := range c.NUMANodes {
		if node < 0 {
			return fmt.Errorf("invalid NUMA node id: %d", node)
		}
	}
	return nil
}

// ParseIntList parses a comma-separated list of integers such as the
// -a and -m flag values ("0,2,4,6"). Blank input yields an empty list.
func ParseIntList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid number in list: %q", p)
		}
		ids = append(ids, v)
	}
	return ids, nil
}
