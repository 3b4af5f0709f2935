// Package ratelimit implements a per-caller fixed-window request limiter.
//
// Each caller key gets an independent window. The first request from a key
// opens a window; requests within it count against the quota, and the first
// request at or after the window's end resets the count and opens a fresh
// window. State lives in memory, so restarts clear all counters.
package ratelimit

import (
	"errors"
	"sync"
	"time"
)

// ErrThrottled is returned by handlers when a caller exceeds its quota.
// The limiter itself reports a boolean; this sentinel gives upper layers a
// single value to branch on.
var ErrThrottled = errors.New("rate limit exceeded")

// Config controls limiter behaviour.
type Config struct {
	// Window is the fixed window length. Defaults to one minute.
	Window time.Duration
	// Max is the number of requests admitted per key per window.
	// Defaults to 20.
	Max int
	// Clock overrides time.Now. Tests inject a fake clock here.
	Clock func() time.Time
}

type window struct {
	start time.Time
	count int
}

// Limiter tracks request counts per caller key. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	window  time.Duration
	max     int
	now     func() time.Time
}

// New builds a Limiter, applying defaults for unset Config fields.
func New(cfg Config) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Max <= 0 {
		cfg.Max = 20
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Limiter{
		windows: make(map[string]*window),
		window:  cfg.Window,
		max:     cfg.Max,
		now:     cfg.Clock,
	}
}

// Admit reports whether a request from key is within quota and, if so,
// counts it. A denied request is not counted and does not extend the window.
func (l *Limiter) Admit(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[key] = &window{start: now, count: 1}
		return true
	}
	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

// Remaining reports how many requests key may still make in its current
// window. A key with no live window has the full quota.
func (l *Limiter) Remaining(key string) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		return l.max
	}
	if w.count >= l.max {
		return 0
	}
	return l.max - w.count
}

// Prune drops windows that ended before now. The limiter works correctly
// without pruning; this only bounds memory for long-running processes that
// see many distinct keys.
func (l *Limiter) Prune() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.windows {
		if now.Sub(w.start) >= l.window {
			delete(l.windows, key)
		}
	}
}
