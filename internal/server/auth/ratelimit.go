package auth

import (
	"sync"
	"time"
)

// RateLimiter bounds authentication attempts per originating address and
// action: limit attempts inside a sliding window (5 per 5 minutes by
// default). The window is fixed backoff, not exponential. Counting is
// approximate under concurrency, which is acceptable; unbounded growth is
// not, so stale entries are pruned on every check.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	attempts map[string][]time.Time

	now func() time.Time
}

// NewRateLimiter creates a limiter allowing limit attempts per window for
// each key.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow records an attempt for addr+action and reports whether it is within
// the limit. Attempts older than the window are discarded first, so a
// blocked caller regains access once the window slides past its burst.
func (r *RateLimiter) Allow(addr, action string) bool {
	key := addr + "\x00" + action
	now := r.now()
	cutoff := now.Add(-r.window)

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.attempts[key][:0]
	for _, t := range r.attempts[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= r.limit {
		r.attempts[key] = kept
		return false
	}

	r.attempts[key] = append(kept, now)
	return true
}

// Prune removes keys whose every attempt fell outside the window.
func (r *RateLimiter) Prune() {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.window)
	for key, ts := range r.attempts {
		live := false
		for _, t := range ts {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(r.attempts, key)
		}
	}
}
