package ratelimit

import (
	"sync"
	"time"
)

// Config holds the per-client limits.
type Config struct {
	Capacity   int     // burst allowance
	RefillRate float64 // sustained requests per second
	Enabled    bool
}

// KeyedLimiter gives every key (a client address) its own bucket, created
// lazily on first use.
//
//	limiter := NewKeyedLimiter(Config{Capacity: 20, RefillRate: 5, Enabled: true})
//	if ok, wait := limiter.Allow("203.0.113.7"); !ok {
//	    // reject, retry after wait
//	}
type KeyedLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*TokenBucket
	config  Config
	now     func() time.Time
}

// NewKeyedLimiter creates a limiter with no buckets.
func NewKeyedLimiter(config Config) *KeyedLimiter {
	return &KeyedLimiter{
		buckets: make(map[string]*TokenBucket),
		config:  config,
		now:     time.Now,
	}
}

// Enabled reports whether requests are ever rejected.
func (l *KeyedLimiter) Enabled() bool {
	return l.config.Enabled
}

// Allow reports whether a request for key may proceed. A disabled limiter
// allows everything without tracking keys.
func (l *KeyedLimiter) Allow(key string) (bool, time.Duration) {
	if !l.config.Enabled {
		return true, 0
	}

	l.mu.RLock()
	bucket, ok := l.buckets[key]
	l.mu.RUnlock()

	if !ok {
		l.mu.Lock()
		bucket, ok = l.buckets[key]
		if !ok {
			bucket = newTokenBucket(l.config.Capacity, l.config.RefillRate, l.now)
			l.buckets[key] = bucket
		}
		l.mu.Unlock()
	}
	return bucket.Allow()
}

// Prune drops buckets unused for longer than idle and returns how many
// were dropped. A pruned key starts again with a full bucket.
func (l *KeyedLimiter) Prune(idle time.Duration) int {
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, bucket := range l.buckets {
		if bucket.idleSince().Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

// Stats returns a snapshot of every tracked key.
func (l *KeyedLimiter) Stats() map[string]Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := make(map[string]Stats, len(l.buckets))
	for key, bucket := range l.buckets {
		hits, total := bucket.Stats()
		s := Stats{Key: key, Hits: hits, Total: total}
		if total > 0 {
			s.HitRate = float64(hits) / float64(total)
		}
		stats[key] = s
	}
	return stats
}

// Stats summarizes one key's traffic.
type Stats struct {
	Key     string  `json:"key"`
	Hits    int64   `json:"hits"`
	Total   int64   `json:"total"`
	HitRate float64 `json:"hit_rate"` // 0.0-1.0
}
