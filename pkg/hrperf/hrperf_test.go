package hrperf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoop(t *testing.T) {
	h := Noop()
	// Must be safe to call in any order, any number of times.
	h.Start()
	h.Pause()
	h.Start()
	h.Pause()
}

func TestLoad_MissingLibrary(t *testing.T) {
	h, err := Load()
	if err == nil {
		// hrperf happens to be installed here; exercise the hook.
		h.Start()
		h.Pause()
		return
	}
	assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
	assert.Nil(t, h)
}
