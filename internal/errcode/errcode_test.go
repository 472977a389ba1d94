package errcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsKind(t *testing.T) {
	err := Wrap(ErrInvalidImport, "decode %s", "payload")
	assert.True(t, errors.Is(err, ErrInvalidImport))
	assert.False(t, errors.Is(err, ErrUnresolvedTheme))
	assert.Equal(t, "decode payload: invalid import payload", err.Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, OK, CodeOf(nil))
	assert.Equal(t, ServiceUnavailable, CodeOf(fmt.Errorf("call: %w", ErrServiceUnavailable)))
	assert.Equal(t, SystemError, CodeOf(errors.New("boom")))
}
