package ddserror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := New(Timeout)
	require.ErrorIs(t, err, New(Timeout))
	assert.False(t, errors.Is(err, New(NoData)))
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(PreconditionNotMet, "topic %q still has %d readers", "Sensor", 3)
	assert.Equal(t, `precondition_not_met: topic "Sensor" still has 3 readers`, err.Error())
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(OutOfResources, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}
