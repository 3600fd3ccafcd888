// Package rate provides a keyed token-bucket limiter used to throttle
// login attempts per account.
package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key. Buckets that have not been
// touched for the configured ttl are dropped by a background sweep so
// the map does not grow without bound.
type Limiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLimiter returns a Limiter that refills one token per interval up
// to burst tokens, and forgets keys idle for longer than ttl.
func NewLimiter(burst int, interval, ttl time.Duration) *Limiter {
	l := &Limiter{
		limit:   rate.Every(interval),
		burst:   burst,
		ttl:     ttl,
		buckets: make(map[string]*bucket),
	}
	go l.sweep()
	return l
}

// Allow reports whether the bucket for key has a token available,
// consuming one if so. Unknown keys get a fresh full bucket.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.seen = time.Now()
	return b.lim.Allow()
}

func (l *Limiter) sweep() {
	tick := time.NewTicker(time.Minute)
	defer tick.Stop()

	for range tick.C {
		l.mu.Lock()
		for key, b := range l.buckets {
			if time.Since(b.seen) > l.ttl {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}
