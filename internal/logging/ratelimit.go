package logging

import (
	"sync"
	"time"
)

// RateLimiter gates an event to at most once per Interval. Used to bound
// log volume for events that could otherwise fire once per sample or once
// per line, such as repeated malformed-input warnings or a stalled ingest
// source.
type RateLimiter struct {
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// Allow reports whether an event may fire now, updating the internal
// clock if so.
func (r *RateLimiter) Allow(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.last) < r.Interval {
		return false
	}
	r.last = now
	return true
}
