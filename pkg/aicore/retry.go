package aicore

import (
	"time"
)

// RetryPolicy is an explicit retry loop with exponential backoff. A started
// sequence runs to success or exhaustion; callers wanting cancellation must
// cancel before initiating the call.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
}

// DefaultRetryPolicy returns the standard policy: 3 attempts, backoff
// starting at 1s with multiplier 2, capped at 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Multiplier:  2,
		MaxDelay:    30 * time.Second,
	}
}

// Do invokes fn up to MaxAttempts times, sleeping between attempts, while
// retryable reports the returned error as eligible. The final error is
// returned unchanged.
func (p RetryPolicy) Do(fn func() error, retryable func(error) bool) error {
	delay := p.BaseDelay

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}

		time.Sleep(delay)
		delay = time.Duration(float64(delay) * p.Multiplier)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return err
}
