package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTokenBucket_Allow(t *testing.T) {
	clock := newClock()
	bucket := newTokenBucket(5, 1, clock.now)

	for i := 0; i < 5; i++ {
		ok, _ := bucket.Allow()
		assert.True(t, ok, "request %d", i+1)
	}

	ok, wait := bucket.Allow()
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	hits, total := bucket.Stats()
	assert.EqualValues(t, 1, hits)
	assert.EqualValues(t, 6, total)
}

func TestTokenBucket_RefillKeepsPartialTokens(t *testing.T) {
	clock := newClock()
	bucket := newTokenBucket(2, 10, clock.now)

	bucket.Allow()
	bucket.Allow()
	ok, wait := bucket.Allow()
	assert.False(t, ok)
	assert.Equal(t, 100*time.Millisecond, wait)

	// two 60ms steps add up to one token
	clock.advance(60 * time.Millisecond)
	ok, _ = bucket.Allow()
	assert.False(t, ok)
	clock.advance(60 * time.Millisecond)
	ok, _ = bucket.Allow()
	assert.True(t, ok)
}

func TestTokenBucket_NeverExceedsCapacity(t *testing.T) {
	clock := newClock()
	bucket := newTokenBucket(3, 100, clock.now)

	clock.advance(time.Hour)
	allowed := 0
	for i := 0; i < 10; i++ {
		if ok, _ := bucket.Allow(); ok {
			allowed++
		}
	}
	assert.Equal(t, 3, allowed)
}

func TestKeyedLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewKeyedLimiter(Config{Capacity: 1, RefillRate: 1, Enabled: true})
	clock := newClock()
	limiter.now = clock.now

	ok, _ := limiter.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = limiter.Allow("10.0.0.1")
	assert.False(t, ok)
	ok, _ = limiter.Allow("10.0.0.2")
	assert.True(t, ok)

	stats := limiter.Stats()
	assert.Equal(t, Stats{Key: "10.0.0.1", Hits: 1, Total: 2, HitRate: 0.5}, stats["10.0.0.1"])
	assert.EqualValues(t, 0, stats["10.0.0.2"].Hits)
}

func TestKeyedLimiter_Disabled(t *testing.T) {
	limiter := NewKeyedLimiter(Config{Capacity: 0, Enabled: false})

	for i := 0; i < 100; i++ {
		ok, _ := limiter.Allow("10.0.0.1")
		assert.True(t, ok)
	}
	assert.Empty(t, limiter.Stats())
}

func TestKeyedLimiter_Prune(t *testing.T) {
	limiter := NewKeyedLimiter(Config{Capacity: 1, RefillRate: 0.001, Enabled: true})
	clock := newClock()
	limiter.now = clock.now

	limiter.Allow("idle")
	clock.advance(10 * time.Minute)
	limiter.Allow("active")

	assert.Equal(t, 1, limiter.Prune(5*time.Minute))
	assert.NotContains(t, limiter.Stats(), "idle")
	assert.Contains(t, limiter.Stats(), "active")

	// a pruned key starts over with a full bucket
	ok, _ := limiter.Allow("idle")
	assert.True(t, ok)
}
