package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToCap(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	r := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, r.Allow(now))
		r.Note(now)
	}
	assert.False(t, r.Allow(now))
}

func TestRateLimiterWindowBoundaryExclusive(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	r := NewRateLimiter(1, time.Minute)
	r.Note(start)

	// 59.999s later the entry still counts.
	assert.False(t, r.Allow(start.Add(time.Minute-time.Millisecond)))

	// Exactly 60s later it is expired.
	assert.True(t, r.Allow(start.Add(time.Minute)))
}

func TestRateLimiterReopensAsEntriesAge(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	r := NewRateLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		r.Note(start.Add(time.Duration(i) * time.Second))
	}
	at := start.Add(30 * time.Second)
	assert.False(t, r.Allow(at))
	assert.Equal(t, 10, r.Len(at))

	// Once the oldest entry ages past the window, one slot frees up.
	at = start.Add(61 * time.Second)
	assert.True(t, r.Allow(at))
	assert.Equal(t, 9, r.Len(at))
}

func TestRateLimiterAllowDoesNotConsume(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	r := NewRateLimiter(2, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, r.Allow(now))
	}
	assert.Equal(t, 0, r.Len(now))
}
