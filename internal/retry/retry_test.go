package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do() returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	policy := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	wantErr := errors.New("still failing")
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	policy := Policy{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		Retryable:   func(err error) bool { return !errors.Is(err, permanent) },
	}

	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})

	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt, got %d", calls)
	}
}

func TestDoNeverRetriesCancelledContext(t *testing.T) {
	policy := Policy{MaxAttempts: 5, BaseDelay: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := policy.Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return ctx.Err()
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 attempt, got %d", calls)
	}
}

type hintedError struct {
	delay time.Duration
}

func (e *hintedError) Error() string             { return fmt.Sprintf("throttled, retry in %s", e.delay) }
func (e *hintedError) RetryDelay() time.Duration { return e.delay }

func TestDoHonorsServerDelayHint(t *testing.T) {
	policy := Policy{MaxAttempts: 2, BaseDelay: time.Hour} // backoff would stall the test

	start := time.Now()
	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &hintedError{delay: 5 * time.Millisecond}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do() returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("hinted delay ignored, waited %s", elapsed)
	}
}

func TestDelayGrowsAndCaps(t *testing.T) {
	policy := Policy{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 5 * time.Second},
		{8, 5 * time.Second},
	}
	for _, tc := range cases {
		if got := policy.Delay(tc.attempt); got != tc.want {
			t.Errorf("Delay(%d) = %s, want %s", tc.attempt, got, tc.want)
		}
	}
}
