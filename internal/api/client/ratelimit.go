package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached means the rolling 24-hour call budget is spent.
var ErrDailyLimitReached = errors.New("daily API limit reached")

// RateLimiter throttles marketplace API calls two ways: a token bucket
// caps the instantaneous request rate, and a rolling 24-hour quota caps
// total volume so an unattended watch loop cannot spend the whole
// budget overnight.
type RateLimiter struct {
	bucket *rate.Limiter
	quota  int64

	mu        sync.Mutex
	used      int64
	windowEnd time.Time
	now       func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the clock, for tests.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.now = f
	}
}

// NewRateLimiter creates a limiter admitting perSecond calls with the
// given burst, capped at quota calls per rolling 24-hour window. The
// window opens at construction and rolls forward when it expires.
func NewRateLimiter(perSecond float64, burst int, quota int64, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), burst),
		quota:  quota,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.windowEnd = r.now().Add(24 * time.Hour)
	return r
}

// Wait blocks until the token bucket admits the call, or the context is
// canceled. It fails fast with ErrDailyLimitReached once the current
// window's quota is spent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	r.rollWindowLocked()
	if r.used >= r.quota {
		used := r.used
		r.mu.Unlock()
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, used, r.quota)
	}
	r.mu.Unlock()

	if err := r.bucket.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.mu.Lock()
	r.used++
	r.mu.Unlock()
	return nil
}

// DailyCount returns the number of calls admitted in the current window.
func (r *RateLimiter) DailyCount() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used
}

// Remaining returns how many calls the current window still allows.
func (r *RateLimiter) Remaining() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if left := r.quota - r.used; left > 0 {
		return left
	}
	return 0
}

// ResetAt returns when the current window expires and the quota refills.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rollWindowLocked()
	return r.windowEnd
}

func (r *RateLimiter) rollWindowLocked() {
	if now := r.now(); now.After(r.windowEnd) {
		r.used = 0
		r.windowEnd = now.Add(24 * time.Hour)
	}
}
