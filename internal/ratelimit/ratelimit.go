// Package ratelimit provides a keyed rate limiter using the token bucket algorithm.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused key keeps its bucket.
const DefaultIdleTTL = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter manages per-key rate limiting.
// Each unique key gets its own bucket; buckets idle for longer than the TTL
// are pruned lazily while handling later calls, so no background goroutine runs.
type KeyedRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*entry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastPrune time.Time
	now       func() time.Time
}

// New creates a new keyed rate limiter.
// rps: requests per second allowed.
// burst: maximum burst size (tokens available immediately).
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
	}
}

// WithIdleTTL overrides how long idle buckets are kept.
func (krl *KeyedRateLimiter) WithIdleTTL(ttl time.Duration) *KeyedRateLimiter {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	krl.idleTTL = ttl
	return krl
}

// Allow checks if a request for the given key should be allowed.
// Returns immediately without blocking.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	now := krl.now()

	krl.mu.Lock()
	krl.pruneLocked(now)
	e, ok := krl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(krl.limit, krl.burst)}
		krl.entries[key] = e
	}
	e.lastSeen = now
	krl.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Len reports how many keys currently hold a bucket.
func (krl *KeyedRateLimiter) Len() int {
	krl.mu.Lock()
	defer krl.mu.Unlock()
	return len(krl.entries)
}

// pruneLocked drops idle buckets at most once per TTL window. Caller holds mu.
func (krl *KeyedRateLimiter) pruneLocked(now time.Time) {
	if now.Sub(krl.lastPrune) < krl.idleTTL {
		return
	}
	krl.lastPrune = now
	for key, e := range krl.entries {
		if now.Sub(e.lastSeen) >= krl.idleTTL {
			delete(krl.entries, key)
		}
	}
}
