package watch

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryPolicy controls how a failed tail session is restarted.
type RetryPolicy struct {
	MaxRetries  int           // restarts before giving up
	BaseBackoff time.Duration // delay before the first restart
	MaxBackoff  time.Duration // upper bound on any delay
	JitterFn    func(time.Duration) time.Duration
}

// DefaultRetryPolicy restarts up to five times, doubling from 500ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:  5,
		BaseBackoff: 500 * time.Millisecond,
		MaxBackoff:  30 * time.Second,
		JitterFn:    HalfJitter,
	}
}

// HalfJitter adds up to 50% of d.
func HalfJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(d/2) + 1))
}

// Retry executes fn with retries, backoff, and cancellation support.
//
// fn must return nil on success.
// Any non-nil error is treated as retryable.
// When fn reports progress the attempt count and backoff start over.
func Retry(
	ctx context.Context,
	policy RetryPolicy,
	fn func() (progressed bool, err error),
) error {

	var attempt int
	var backoff = policy.BaseBackoff

	for {
		progressed, err := fn()
		if err == nil {
			return nil
		}

		if progressed {
			attempt = 0
			backoff = policy.BaseBackoff
		}

		attempt++
		if attempt > policy.MaxRetries {
			return err
		}

		delay := backoff
		if policy.JitterFn != nil {
			delay += policy.JitterFn(backoff)
		}
		if delay > policy.MaxBackoff {
			delay = policy.MaxBackoff
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
			backoff *= 2
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
