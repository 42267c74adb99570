// Package retry provides a reusable bounded-backoff policy. The fetcher and
// the notification dispatcher share it so retry behavior is configured in one
// place instead of hand-rolled per call site.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// DelayHinter is implemented by errors that carry a server-provided retry
// delay, such as an HTTP 429 with a Retry-After header. The hint takes
// precedence over the computed backoff.
type DelayHinter interface {
	RetryDelay() time.Duration
}

// Policy describes a bounded exponential backoff schedule.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the delay before the first retry, doubled on each
	// subsequent retry.
	BaseDelay time.Duration
	// MaxDelay caps the computed delay.
	MaxDelay time.Duration
	// Jitter is the fraction of the delay used for random spread, e.g.
	// 0.3 for plus or minus 30 percent. Zero disables jitter.
	Jitter float64
	// Retryable classifies errors. A nil classifier retries everything
	// except context cancellation.
	Retryable func(error) bool
}

// Delay computes the backoff delay before retry number attempt (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			delay = p.MaxDelay
			break
		}
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.Jitter > 0 {
		spread := float64(delay) * p.Jitter
		delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*spread)
		if delay < 0 {
			delay = 0
		}
	}
	return delay
}

func (p Policy) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return true
}

// Do runs fn until it succeeds, a permanent error occurs, the attempt budget
// is exhausted, or ctx is done. The last error is returned on failure.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts || !p.retryable(lastErr) {
			return lastErr
		}

		delay := p.Delay(attempt)
		var hinter DelayHinter
		if errors.As(lastErr, &hinter) && hinter.RetryDelay() > 0 {
			delay = hinter.RetryDelay()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
