package ratelimit

import (
	"context"
	"time"
)

// Limiter is a sliding-window counter keyed by external identity (IP, email,
// user id). It lives outside the process so limits survive restarts and
// horizontal scaling.
type Limiter interface {
	// Allow records an attempt under key and reports whether it stays within
	// limit attempts per window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return true, nil
}

// NewNoop returns a limiter that allows everything. Used when Redis is
// unreachable so the API degrades instead of refusing all traffic.
func NewNoop() Limiter {
	return noopLimiter{}
}
