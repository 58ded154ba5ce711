// Package ratelimit implements a sliding-window admission gate shared by all
// inbound requests.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultLimit is the default number of requests admitted per window.
	DefaultLimit = 20

	// DefaultWindow is the default trailing window duration.
	DefaultWindow = 60 * time.Second
)

// Limiter counts requests within a trailing time window and rejects once the
// count reaches the limit. The check and the append happen under one lock so
// concurrent callers can never jointly exceed the limit.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	times  []time.Time
	now    func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock sets the clock used for windowing. Tests use this to simulate
// time passing without sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a limiter admitting at most limit requests per window.
// Non-positive arguments fall back to the defaults.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether the request is admitted. Admitted requests are
// recorded; rejected requests leave the window untouched.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	if len(l.times) >= l.limit {
		return false
	}
	l.times = append(l.times, now)
	return true
}

// Occupancy returns the number of requests currently inside the window.
func (l *Limiter) Occupancy() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict(l.now())
	return len(l.times)
}

// evict drops timestamps older than the window. Callers must hold mu.
// Entries are appended in order, so a single scan from the front suffices.
func (l *Limiter) evict(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.times) && !l.times[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.times = append(l.times[:0], l.times[i:]...)
	}
}
