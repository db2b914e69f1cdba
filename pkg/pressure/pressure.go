// Package pressure runs the benchmark in the background to put controlled
// memory-bandwidth pressure on the machine while other code executes.
//
// A generator only accepts runtime-mode configs: the core has no
// cancellation path, so a run must bound itself with a deadline. Once
// started it cannot be aborted, only waited for.
package pressure

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/perfkit/memstream/pkg/config"
	"github.com/perfkit/memstream/pkg/stream"
)

// Generator owns one background benchmark run at a time.
type Generator struct {
	cfg *config.Config

	mu      sync.Mutex
	running bool
	done    chan struct{}
	report  *stream.Report
	err     error
}

// New validates cfg and prepares a generator. The config is copied and
// forced quiet; the caller's copy stays untouched.
func New(cfg *config.Config) (*Generator, error) {
	if !cfg.RuntimeMode() {
		return nil, errors.New("pressure generator requires runtime mode (Runtime > 0)")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := *cfg
	c.Quiet = true
	return &Generator{cfg: &c}, nil
}

// Start launches the run in the background. Starting a generator that is
// already running is an error; restarting a finished one is fine.
func (g *Generator) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return errors.New("pressure generator already running")
	}
	g.running = true
	g.done = make(chan struct{})

	done := g.done
	go func() {
		rep, err := stream.Run(g.cfg)
		g.mu.Lock()
		g.report, g.err = rep, err
		g.running = false
		g.mu.Unlock()
		close(done)
	}()
	return nil
}

// Running reports whether a run is in flight.
func (g *Generator) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// Wait blocks until the current run finishes and returns its report.
func (g *Generator) Wait() (*stream.Report, error) {
	g.mu.Lock()
	done := g.done
	g.mu.Unlock()
	if done == nil {
		return nil, errors.New("pressure generator not started")
	}
	<-done

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.report, g.err
}

// Usage is a point-in-time resource sample of this process.
type Usage struct {
	CPUPercent float64
	RSSMB      float64
	VMSMB      float64
}

// Usage samples the current process while the generator runs, for callers
// that monitor the pressure they are generating.
func (g *Generator) Usage() (Usage, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Usage{}, fmt.Errorf("open process: %w", err)
	}
	cpuPct, err := proc.CPUPercent()
	if err != nil {
		return Usage{}, fmt.Errorf("sample CPU: %w", err)
	}
	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return Usage{}, fmt.Errorf("sample memory: %w", err)
	}
	return Usage{
		CPUPercent: cpuPct,
		RSSMB:      float64(memInfo.RSS) / (1024 * 1024),
		VMSMB:      float64(memInfo.VMS) / (1024 * 1024),
	}, nil
}
