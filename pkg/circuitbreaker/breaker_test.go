package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_PassesResultThrough(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig("test"))

	got, err := Execute(cb, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestExecute_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(DefaultConfig("webhook"))
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_, err := Execute(cb, func() (int, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
	}
	assert.True(t, IsCircuitOpen(cb))

	called := false
	_, err := Execute(cb, func() (int, error) {
		called = true
		return 1, nil
	})
	assert.False(t, called)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Contains(t, err.Error(), "webhook")
}
