package crawl

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces the politeness delay between consecutive frontier items.
// A documentation mirror crawls a single host, so one limiter covers the
// whole run and is shared across workers.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter that admits one item per interval. The first
// call to Wait passes immediately. A non-positive interval disables waiting
// entirely.
func NewLimiter(interval time.Duration) *Limiter {
	l := &Limiter{}
	if interval > 0 {
		l.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return l
}

// Wait blocks until the next item may start or ctx is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
