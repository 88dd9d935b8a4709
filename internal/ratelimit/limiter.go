package ratelimit

import (
	"sync"
	"time"
)

// Result is the outcome of a single rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window request counter keyed by a caller-derived string.
// State lives only in process memory; a restart clears all counters.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	stopCh  chan struct{}
}

// New creates a Limiter and starts a background sweep that purges expired
// windows every sweepInterval to bound memory.
func New(sweepInterval time.Duration) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go l.sweepLoop(sweepInterval)
	return l
}

// Stop terminates the background sweep goroutine.
func (l *Limiter) Stop() {
	close(l.stopCh)
}

// Check bills one attempt against key's current window and reports whether it
// is still within maxAttempts. A key with no window, or an expired one, gets
// a fresh window of size windowMs starting now. Both paths count the attempt.
func (l *Limiter) Check(key string, maxAttempts int, window time.Duration) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || e.resetAt.Before(now) {
		resetAt := now.Add(window)
		l.entries[key] = &entry{count: 1, resetAt: resetAt}
		return Result{Allowed: true, Remaining: maxAttempts - 1, ResetAt: resetAt}
	}

	if e.count >= maxAttempts {
		return Result{Allowed: false, Remaining: 0, ResetAt: e.resetAt}
	}

	e.count++
	return Result{Allowed: true, Remaining: maxAttempts - e.count, ResetAt: e.resetAt}
}

// Reset drops the window for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

// Len returns the number of tracked windows, expired ones included.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Limiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stopCh:
			return
		}
	}
}

func (l *Limiter) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if e.resetAt.Before(now) {
			delete(l.entries, key)
		}
	}
}
