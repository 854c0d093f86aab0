package analyzer

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces outbound lookup calls. One Pacer instance is shared by
// every batch of a run, so pacing carries across retries and category
// boundaries.
type Pacer interface {
	Wait(ctx context.Context) error
}

// IntervalPacer enforces a fixed minimum wall-clock interval between
// consecutive calls. The first call never blocks.
type IntervalPacer struct {
	limiter *rate.Limiter
}

// NewIntervalPacer creates a pacer with the given minimum interval between
// calls. A non-positive interval disables pacing entirely.
func NewIntervalPacer(minInterval time.Duration) *IntervalPacer {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &IntervalPacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the interval since the previous permitted call has
// elapsed, or the context is cancelled.
func (p *IntervalPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
