// Package hrperf binds the optional hrperf profiling library.
//
// The contract is two no-argument, no-result operations: Start and Pause.
// They bracket the benchmark's spawn-through-join region when profiling is
// requested; everything else about the library is opaque to this program.
//
// The library is loaded dynamically via purego, so builds never depend on
// hrperf being installed. A missing library degrades to the no-op hook.
package hrperf

import "errors"

// ErrUnavailable is returned when the hrperf library cannot be loaded.
var ErrUnavailable = errors.New("hrperf library not available")

// Hook brackets a measured region.
type Hook interface {
	Start()
	Pause()
}

type noop struct{}

func (noop) Start() {}
func (noop) Pause() {}

// Noop returns a hook that does nothing.
func Noop() Hook { return noop{} }

// Load opens the hrperf shared library and resolves its start and pause
// entry points.
func Load() (Hook, error) {
	return load()
}
