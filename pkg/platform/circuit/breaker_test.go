package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker(t *testing.T) {
	t.Run("opens after consecutive failures", func(t *testing.T) {
		b := New("redis", WithFailureThreshold(2))
		assert.False(t, b.Failure())
		assert.True(t, b.Failure())
		assert.Equal(t, StateOpen, b.State())
		assert.False(t, b.Failure(), "already open")
	})

	t.Run("success while closed resets the count", func(t *testing.T) {
		b := New("redis", WithFailureThreshold(2))
		b.Failure()
		assert.False(t, b.Success())
		assert.False(t, b.Failure())
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("closes after enough probes", func(t *testing.T) {
		b := New("redis", WithFailureThreshold(1), WithSuccessThreshold(2))
		b.Failure()
		assert.False(t, b.Success())
		assert.True(t, b.Success())
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("failure during probing restarts it", func(t *testing.T) {
		b := New("redis", WithFailureThreshold(1), WithSuccessThreshold(2))
		b.Failure()
		b.Success()
		b.Failure()
		assert.False(t, b.Success())
		assert.Equal(t, StateOpen, b.State())
	})

	t.Run("zero options keep defaults", func(t *testing.T) {
		b := New("redis", WithFailureThreshold(0), nil)
		for range 4 {
			assert.False(t, b.Failure())
		}
		assert.True(t, b.Failure())
		b.Reset()
		assert.Equal(t, "closed", b.State().String())
	})
}
