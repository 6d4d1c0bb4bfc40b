package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerLifecycle(t *testing.T) {
	now := time.Unix(0, 0)
	b := NewBreaker(2, time.Minute)
	b.now = func() time.Time { return now }

	require.NoError(t, b.Allow())
	b.Report(false)
	assert.Equal(t, "closed", b.State())
	require.NoError(t, b.Allow())
	b.Report(false)
	assert.Equal(t, "open", b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	now = now.Add(2 * time.Minute)
	require.NoError(t, b.Allow(), "trial after cooldown")
	assert.Equal(t, "half-open", b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen, "one trial at a time")

	b.Report(false)
	assert.Equal(t, "open", b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	now = now.Add(2 * time.Minute)
	require.NoError(t, b.Allow())
	b.Report(true)
	assert.Equal(t, "closed", b.State())
	assert.NoError(t, b.Allow())
}

func TestBreakerSuccessResetsFailureRun(t *testing.T) {
	b := NewBreaker(2, time.Minute)
	b.Report(false)
	b.Report(true)
	b.Report(false)
	assert.Equal(t, "closed", b.State())
	b.Report(false)
	assert.Equal(t, "open", b.State())
}

func TestBreakerDefaults(t *testing.T) {
	b := NewBreaker(0, 0)
	assert.Equal(t, DefaultBreakerThreshold, b.Threshold())
	assert.Equal(t, DefaultBreakerCooldown, b.Cooldown())
	assert.Equal(t, 5, b.Threshold())
	assert.Equal(t, 15*time.Second, b.Cooldown())

	b = NewBreaker(-3, -time.Second)
	assert.Equal(t, 5, b.Threshold())
	assert.Equal(t, 15*time.Second, b.Cooldown())

	now := time.Unix(0, 0)
	b.now = func() time.Time { return now }
	for i := 0; i < 4; i++ {
		b.Report(false)
	}
	assert.Equal(t, "closed", b.State())
	b.Report(false)
	assert.Equal(t, "open", b.State())

	now = now.Add(14 * time.Second)
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
	now = now.Add(2 * time.Second)
	assert.NoError(t, b.Allow())
}

func TestNilBreakerAllowsEverything(t *testing.T) {
	var b *Breaker
	assert.NoError(t, b.Allow())
	b.Report(false)
	assert.Equal(t, "closed", b.State())
}
