package exotica

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token-bucket limiter shared by all requests to the
// exotica servers. Mirroring is a courtesy use of a volunteer-run service;
// the limiter keeps the request rate polite even when downloads run on a
// worker pool. Safe for concurrent use.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewRateLimiter allows requestsPerSecond on average with bursts up to
// burstSize.
func NewRateLimiter(requestsPerSecond float64, burstSize int) *RateLimiter {
	return &RateLimiter{
		tokens:     float64(burstSize),
		maxTokens:  float64(burstSize),
		refillRate: requestsPerSecond,
		lastRefill: time.Now(),
	}
}

// DefaultRateLimiter paces requests at roughly one per second with a small
// burst.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(1.0, 3)
}

// Wait blocks until a request may be made, or until ctx is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()

		now := time.Now()
		elapsed := now.Sub(r.lastRefill).Seconds()
		r.tokens += elapsed * r.refillRate
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.lastRefill = now

		if r.tokens >= 1 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}

		wait := time.Duration((1 - r.tokens) / r.refillRate * float64(time.Second))
		r.mu.Unlock()

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
