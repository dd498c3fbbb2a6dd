package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "no progress for document abc")

	assert.Contains(t, wrapped.Error(), "no progress for document abc")
	assert.True(t, Is(wrapped, ErrNotFound))
	assert.False(t, Is(wrapped, ErrUnauthorized))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(Wrap(ErrNotFound, "context")))
	assert.False(t, IsNotFound(New("something else")))
	assert.False(t, IsNotFound(nil))
}

func TestIsInvalidRequest(t *testing.T) {
	assert.True(t, IsInvalidRequest(ErrInvalidRequest))
	assert.True(t, IsInvalidRequest(Wrap(ErrInvalidRequest, "missing field")))
	assert.False(t, IsInvalidRequest(ErrAlreadyRegistered))
	assert.False(t, IsInvalidRequest(nil))
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(Wrap(ErrUnauthorized, "bad key")))
	assert.False(t, IsUnauthorized(ErrNotFound))
	assert.False(t, IsUnauthorized(nil))
}

func TestNewInvalidRequestError(t *testing.T) {
	err := NewInvalidRequestError("field '%s' not provided", "document")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "field 'document' not provided")
	assert.True(t, Is(err, ErrInvalidRequest))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrInvalidRequest,
		ErrUnauthorized,
		ErrAlreadyRegistered,
		ErrRegistrationDisabled,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, Is(a, b), "%v should not match %v", a, b)
		}
	}
}
