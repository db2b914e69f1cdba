//go:build linux || darwin

package hrperf

import (
	"fmt"
	"runtime"

	"github.com/ebitengine/purego"
)

type libHook struct {
	start uintptr
	pause uintptr
}

func (h *libHook) Start() { purego.SyscallN(h.start) }
func (h *libHook) Pause() { purego.SyscallN(h.pause) }

func libName() string {
	if runtime.GOOS == "darwin" {
		return "libhrperf.dylib"
	}
	return "libhrperf.so"
}

func load() (Hook, error) {
	lib, err := purego.Dlopen(libName(), purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	start, err := purego.Dlsym(lib, "hrperf_start")
	if err != nil {
		return nil, fmt.Errorf("%w: hrperf_start: %v", ErrUnavailable, err)
	}
	pause, err := purego.Dlsym(lib, "hrperf_pause")
	if err != nil {
		return nil, fmt.Errorf("%w: hrperf_pause: %v", ErrUnavailable, err)
	}
	return &libHook{start: start, pause: pause}, nil
}
