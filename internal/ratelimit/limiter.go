package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter caps how often a user may hit the AI analysis endpoints.
type Limiter interface {
	Allow(ctx context.Context, userID uint) (bool, error)
}

type window struct {
	start time.Time
	count int
}

// MemoryLimiter is a fixed-window in-process limiter, used when no Redis
// address is configured. Counts reset when the window elapses.
type MemoryLimiter struct {
	limit   int
	period  time.Duration
	mu      sync.Mutex
	windows map[uint]*window
	now     func() time.Time
}

// NewMemoryLimiter allows up to limit calls per period per user.
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		period:  period,
		windows: make(map[uint]*window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, userID uint) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[userID]
	if !ok || now.Sub(w.start) >= l.period {
		w = &window{start: now}
		l.windows[userID] = w
	}
	w.count++
	return w.count <= l.limit, nil
}
