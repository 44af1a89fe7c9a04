package google

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default Calendar API request budget. Google's per-user quota is far
// higher; staying well below it leaves room for the clinic's own clients.
const (
	DefaultRequestsPerSecond = 5.0
	DefaultBurst             = 10
)

// defaultBackoff applies when a 429 carries no Retry-After header.
const defaultBackoff = 60 * time.Second

// RateLimiter is a token bucket that also honours 429 backoff.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// NewRateLimiter creates a limiter allowing rps sustained requests.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		now:     time.Now,
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	wait := r.retryAt.Sub(r.now())
	r.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return r.limiter.Wait(ctx)
}

// Backoff pauses all requests for d, or defaultBackoff when d is not positive.
func (r *RateLimiter) Backoff(d time.Duration) {
	if d <= 0 {
		d = defaultBackoff
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if until := r.now().Add(d); until.After(r.retryAt) {
		r.retryAt = until
	}
}

// Allow reports whether a request may be sent now without blocking.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if r.now().Before(retryAt) {
		return false
	}
	return r.limiter.Allow()
}
