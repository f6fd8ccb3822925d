package ratelimit

import (
	"sync"
	"time"
)

// FixedWindow counts requests per key in coarse time windows, entirely
// in process memory. It suits low-volume endpoints that fan out to an
// external processor, where a small cap is enough and a Redis round
// trip buys nothing.
type FixedWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	start  time.Time
	counts map[string]int

	now func() time.Time
}

// NewFixedWindow returns a limiter allowing limit requests per key per
// window. A non-positive limit or window yields a nil limiter, which
// allows everything.
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	if limit <= 0 || window <= 0 {
		return nil
	}
	return &FixedWindow{
		limit:  limit,
		window: window,
		counts: make(map[string]int),
		now:    time.Now,
	}
}

// Allow consumes one slot for the key in the current window. When the
// key is over its cap the second return says how long until the window
// rolls over.
func (w *FixedWindow) Allow(key string) (bool, time.Duration) {
	if w == nil {
		return true, 0
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if w.start.IsZero() || now.Sub(w.start) >= w.window {
		w.start = now
		w.counts = make(map[string]int)
	}

	if w.counts[key] >= w.limit {
		return false, w.window - now.Sub(w.start)
	}
	w.counts[key]++
	return true, 0
}
