//go:build linux

package placement

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux mempolicy modes, from <numaif.h>.
const (
	mpolDefault = 0
	mpolBind    = 2

	// One mask word: nodes 0-63. Machines with more nodes exist but are
	// outside what this benchmark is asked to target.
	maxNodes = 64
)

func pinThread(cpuID int) error {
	var mask unix.CPUSet
	mask.Set(cpuID)
	return unix.SchedSetaffinity(unix.Gettid(), &mask)
}

func bindMemory(nodes []int) error {
	var mask uint64
	for _, n := range nodes {
		if n < 0 || n >= maxNodes {
			return fmt.Errorf("numa node %d outside [0,%d)", n, maxNodes)
		}
		mask |= 1 << uint(n)
	}
	_, _, errno := unix.Syscall(unix.SYS_SET_MEMPOLICY,
		mpolBind, uintptr(unsafe.Pointer(&mask)), maxNodes)
	if errno != 0 {
		return fmt.Errorf("set_mempolicy: %w", errno)
	}
	return nil
}

func numaAvailable() error {
	// Probe get_mempolicy the way libnuma's numa_available does: a kernel
	// built without CONFIG_NUMA answers ENOSYS.
	var mode int
	_, _, errno := unix.Syscall6(unix.SYS_GET_MEMPOLICY,
		uintptr(unsafe.Pointer(&mode)), 0, 0, 0, 0, 0)
	if errno == unix.ENOSYS {
		return ErrUnsupported
	}
	if errno != 0 {
		return fmt.Errorf("get_mempolicy: %w", errno)
	}
	return nil
}
