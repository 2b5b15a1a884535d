// Package retry provides a bounded retry helper with injectable delays.
//
// Read-path fetches retry with increasing backoff; write paths never go
// through this package. The sleep function is a parameter so tests can run
// without real timers.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy controls how many attempts are made and how long to wait between them.
type Policy struct {
	MaxAttempts int
	Delay       func(attempt int) time.Duration
}

// Backoff returns a delay function that grows linearly with the attempt
// number: base, 2*base, 3*base, ...
func Backoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * base
	}
}

// Sleeper pauses for a duration, honoring context cancellation.
type Sleeper func(ctx context.Context, d time.Duration) error

// SystemSleep waits on a real timer.
func SystemSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do invokes fn up to policy.MaxAttempts times, sleeping between failures.
// Returns nil on the first success, or the last error once attempts are
// exhausted. A nil sleep uses [SystemSleep].
func Do(ctx context.Context, policy Policy, sleep Sleeper, fn func(ctx context.Context) error) error {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if sleep == nil {
		sleep = SystemSleep
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == policy.MaxAttempts {
			break
		}

		var delay time.Duration
		if policy.Delay != nil {
			delay = policy.Delay(attempt)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	return fmt.Errorf("after %d attempts: %w", policy.MaxAttempts, lastErr)
}
