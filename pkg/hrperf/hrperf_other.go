//go:build !linux && !darwin

package hrperf

func load() (Hook, error) {
	return nil, ErrUnavailable
}
