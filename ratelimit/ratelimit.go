// Package ratelimit implements the per-client sliding window limiter
// used in front of the submission pipeline. It is a soft anti-abuse
// control: state lives in process memory and resets on restart.
package ratelimit

import (
	"sync"
	"time"
)

type Limiter struct {
	mu       sync.Mutex
	window   time.Duration
	ceiling  int
	attempts map[string][]time.Time
	now      func() time.Time
}

func New(window time.Duration, ceiling int) *Limiter {
	return &Limiter{
		window:   window,
		ceiling:  ceiling,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether the client may proceed. On allow, the current
// attempt is recorded; on reject nothing is recorded. Entries older
// than the window are pruned lazily on each access.
func (l *Limiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.attempts[clientID][:0]
	for _, ts := range l.attempts[clientID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.ceiling {
		l.attempts[clientID] = recent
		return false
	}

	l.attempts[clientID] = append(recent, now)
	return true
}

// Pending returns the number of attempts currently on record for a
// client within the window.
func (l *Limiter) Pending(clientID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	count := 0
	for _, ts := range l.attempts[clientID] {
		if ts.After(cutoff) {
			count++
		}
	}
	return count
}
