package ratelimit

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Limiter tracks request counts in fixed windows per key. Windows live in a
// TTL cache so stale clients expire without a cleanup loop of our own.
type Limiter struct {
	mu      sync.Mutex
	windows *cache.Cache
	limit   int
	window  time.Duration
	now     func() time.Time
}

type window struct {
	count     int
	windowEnd time.Time
}

// NewLimiter allows limit requests per key in each window.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		windows: cache.New(window, 5*time.Minute),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow records one request for key. It reports whether the request fits
// in the current window and when that window ends.
func (l *Limiter) Allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	var win *window
	if cached, ok := l.windows.Get(key); ok {
		win = cached.(*window)
	}
	if win == nil || !now.Before(win.windowEnd) {
		win = &window{count: 1, windowEnd: now.Add(l.window)}
		l.windows.Set(key, win, l.window)
		return true, win.windowEnd
	}

	if win.count < l.limit {
		win.count++
		return true, win.windowEnd
	}

	return false, win.windowEnd
}

// Limit returns the per-window budget.
func (l *Limiter) Limit() int {
	return l.limit
}
