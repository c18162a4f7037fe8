package browser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	cause := errors.New("permission denied")
	err := newError(OpReset, Firefox, ErrResetFailed, cause)

	assert.ErrorIs(t, err, ErrResetFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrQueryFailed)
	assert.Equal(t, "reset firefox: failed to cleanup: permission denied", err.Error())

	wrapped := fmt.Errorf("handler: %w", err)
	assert.ErrorIs(t, wrapped, ErrResetFailed)
	assert.Equal(t, ErrResetFailed, CodeOf(wrapped))
}

func TestErrorWithoutCause(t *testing.T) {
	err := newError(OpTerminate, Chrome, ErrNotRunning, nil)
	assert.Equal(t, "terminate chrome: not running", err.Error())
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(nil))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrUnsupportedKind, CodeOf(fmt.Errorf("%w: %q", ErrUnsupportedKind, "x")))
}
