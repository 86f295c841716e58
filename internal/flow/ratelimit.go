package flow

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Rate limiter keys.
const (
	ActionVerify = "verify"
	ActionImport = "import"
)

// DefaultAttemptsPerMinute is the default verification submission budget.
const DefaultAttemptsPerMinute = 5

// AttemptLimiter provides per-action rate limiting using a token bucket.
// Each action may run perMinute times in a burst and then refills at
// perMinute tokens per minute.
type AttemptLimiter struct {
	limiters   map[string]*rate.Limiter
	mu         sync.RWMutex
	rateLimit  rate.Limit
	burstLimit int
}

// NewAttemptLimiter creates a limiter allowing perMinute attempts per action.
// A non-positive perMinute disables limiting.
func NewAttemptLimiter(perMinute int) *AttemptLimiter {
	limit := rate.Inf
	burst := 0
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
		burst = perMinute
	}
	return &AttemptLimiter{
		limiters:   make(map[string]*rate.Limiter),
		rateLimit:  limit,
		burstLimit: burst,
	}
}

// AllowAt reports whether an attempt at action may proceed at t.
func (l *AttemptLimiter) AllowAt(action string, t time.Time) bool {
	return l.getLimiter(action).AllowN(t, 1)
}

// DelayAt returns how long after t the next attempt at action will be
// allowed, without consuming it.
func (l *AttemptLimiter) DelayAt(action string, t time.Time) time.Duration {
	r := l.getLimiter(action).ReserveN(t, 1)
	if !r.OK() {
		return 0
	}
	delay := r.DelayFrom(t)
	r.CancelAt(t)
	return delay
}

// getLimiter returns the limiter for the given action, creating one if needed.
func (l *AttemptLimiter) getLimiter(action string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[action]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = l.limiters[action]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.rateLimit, l.burstLimit)
	l.limiters[action] = limiter
	return limiter
}
