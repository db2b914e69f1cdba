//go:build !linux

package placement

func pinThread(cpuID int) error {
	return ErrUnsupported
}

func bindMemory(nodes []int) error {
	return ErrUnsupported
}

func numaAvailable() error {
	return ErrUnsupported
}
