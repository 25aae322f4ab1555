package agent

import (
	"context"
	"time"
)

// RetryPolicy implements the exponential-backoff-with-doubling retry
// contract: attempts are spaced initialDelay, initialDelay*multiplier,
// initialDelay*multiplier^2, ... capped at maxDelay. It carries no jitter
// and no cross-call provider state: the orchestrator runs one document at a
// time, so there is nothing to coordinate backoff across.
type RetryPolicy struct {
	MaxAttempts int
	InitialDelay time.Duration
	Multiplier float64
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns the documented defaults: 3 attempts, a 1s
// initial delay, doubling each attempt, capped at 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		InitialDelay: time.Second,
		Multiplier: 2.0,
		MaxDelay: 30 * time.Second,
	}
}

// Delay returns the wait before the given attempt number (1-indexed: the
// delay that follows attempt 1's failure, before attempt 2 runs). Exported
// so other packages needing the same backoff shape against a different
// transport (internal/search's HTTP providers) can reuse it without
// reimplementing the schedule.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.delay(attempt)
}

// Sleep waits out Delay(attempt) or returns ctx.Err if the context is
// cancelled first.
func (p RetryPolicy) Sleep(ctx context.Context, attempt int) error {
	return p.sleep(ctx, attempt)
}

// delay returns the wait before the given attempt number (1-indexed: the
// delay that follows attempt 1's failure, before attempt 2 runs).
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.InitialDelay
	for i := 1; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Multiplier)
		if d > p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// sleep waits out delay(attempt) or returns ctx.Err if the context is
// cancelled first.
func (p RetryPolicy) sleep(ctx context.Context, attempt int) error {
	d := p.delay(attempt)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
