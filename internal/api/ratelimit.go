package api

import (
	"sync"

	"golang.org/x/time/rate"
)

const maxTrackedSessions = 10000

// SessionRateLimiter keeps one token bucket per chat session so a single
// noisy session cannot starve the others.
type SessionRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewSessionRateLimiter(perSecond float64, burst int) *SessionRateLimiter {
	return &SessionRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *SessionRateLimiter) Allow(sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[sessionID]
	if !ok {
		if len(l.limiters) >= maxTrackedSessions {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[sessionID] = limiter
	}

	return limiter.Allow()
}
