// Package ratelimit implements a fixed-window request counter per client
// key. Like the cache, it is owned by the service layer and injected, never
// reached from the engine.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults matching the public deployment: 20 requests per 5-minute window.
const (
	DefaultWindow = 5 * time.Minute
	DefaultMax    = 20
)

type window struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests per key inside a fixed window. When the window
// expires the count resets; there is no smoothing across windows.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]window
	window  time.Duration
	max     int
	now     func() time.Time
}

// New creates a Limiter. Non-positive arguments fall back to the defaults.
func New(windowLen time.Duration, max int) *Limiter {
	if windowLen <= 0 {
		windowLen = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMax
	}
	return &Limiter{
		windows: make(map[string]window),
		window:  windowLen,
		max:     max,
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is within the
// current window's budget.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = window{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if w.count >= l.max {
		return false
	}

	w.count++
	l.windows[key] = w
	return true
}
