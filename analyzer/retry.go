package analyzer

import (
	"context"
	"errors"
	"time"

	"github.com/zscaler-hero/catscan/report"
)

// RetryPolicy configures retry behavior for failed lookup calls.
type RetryPolicy struct {
	MaxAttempts int           // total attempts per batch (3 = 2 retries)
	BaseDelay   time.Duration // initial backoff delay
	MaxDelay    time.Duration // backoff cap
}

// DefaultRetryPolicy returns the policy catscan ships with:
// 3 attempts, 1s base delay doubling per retry, 30s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// AttemptFunc performs one classification attempt for a batch.
type AttemptFunc func(ctx context.Context, batch Batch) ([]report.Record, error)

// BatchOutcome is the final verdict for one batch after the retry policy
// has run its course: either one record per URL, or the error that
// exhausted it. Wire-level failures carry a *zia.APIError in Err.
type BatchOutcome struct {
	Batch    Batch
	Records  []report.Record
	Err      error
	Attempts int
}

// Success reports whether the batch produced records.
func (o BatchOutcome) Success() bool { return o.Err == nil }

// Execute runs attempt for batch until it succeeds, fails permanently, or
// attempts are exhausted. A success on any attempt returns immediately.
// Between retryable failures it sleeps an exponentially doubling backoff
// capped at MaxDelay; a larger server Retry-After hint takes precedence
// over the computed backoff. The backoff sleep is additional to whatever
// pacing attempt itself performs.
func (p RetryPolicy) Execute(ctx context.Context, batch Batch, attempt AttemptFunc) BatchOutcome {
	maxAttempts := max(p.MaxAttempts, 1)
	backoff := p.BaseDelay

	var lastErr error
	for n := 1; n <= maxAttempts; n++ {
		records, err := attempt(ctx, batch)
		if err == nil {
			return BatchOutcome{Batch: batch, Records: records, Attempts: n}
		}
		lastErr = err

		if !retryable(err) || n == maxAttempts {
			return BatchOutcome{Batch: batch, Err: err, Attempts: n}
		}

		delay := backoff
		if hint := retryAfterHint(err); hint > delay {
			delay = hint
		}
		select {
		case <-ctx.Done():
			return BatchOutcome{Batch: batch, Err: lastErr, Attempts: n}
		case <-time.After(delay):
		}
		backoff = min(backoff*2, p.MaxDelay)
	}

	return BatchOutcome{Batch: batch, Err: lastErr, Attempts: maxAttempts}
}

// retryable reports whether err signals a failure another attempt could
// clear. Errors that do not classify themselves are not retried.
func retryable(err error) bool {
	var re interface{ Retryable() bool }
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return false
}

// retryAfterHint extracts a server throttling hint from err, if present.
func retryAfterHint(err error) time.Duration {
	var h interface{ RetryAfterHint() time.Duration }
	if errors.As(err, &h) {
		return h.RetryAfterHint()
	}
	return 0
}
