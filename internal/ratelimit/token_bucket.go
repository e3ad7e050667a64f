// Package ratelimit throttles dashboard clients with per-key token buckets.
//
// A bucket allows bursts up to its capacity and refills at a constant rate,
// so a client can click through a page quickly but cannot open sessions or
// trigger calculations in a tight loop.
package ratelimit

import (
	"math"
	"sync"
	"time"
)

// TokenBucket is a thread-safe token bucket. Each request consumes one
// token; an empty bucket rejects requests until tokens refill.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	lastUsed   time.Time
	hitCount   int64
	totalCount int64
	now        func() time.Time
}

// NewTokenBucket creates a full bucket holding capacity tokens and gaining
// refillRate tokens per second.
func NewTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return newTokenBucket(capacity, refillRate, time.Now)
}

func newTokenBucket(capacity int, refillRate float64, now func() time.Time) *TokenBucket {
	t := now()
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: t,
		lastUsed:   t,
		now:        now,
	}
}

// Allow consumes a token if one is available. When it returns false, wait
// is how long until the next token arrives.
func (tb *TokenBucket) Allow() (ok bool, wait time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	tb.totalCount++
	tb.lastUsed = now

	// partial tokens carry over between calls
	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.tokens = math.Min(tb.capacity, tb.tokens+elapsed*tb.refillRate)
		tb.lastRefill = now
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true, 0
	}

	tb.hitCount++
	if tb.refillRate <= 0 {
		return false, 0
	}
	missing := 1 - tb.tokens
	return false, time.Duration(missing / tb.refillRate * float64(time.Second))
}

// Stats returns how many requests were rejected and how many were seen.
func (tb *TokenBucket) Stats() (hits, total int64) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.hitCount, tb.totalCount
}

func (tb *TokenBucket) idleSince() time.Time {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastUsed
}
