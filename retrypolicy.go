package jobengine

import (
	"time"
)

const (
	defaultInitialRetry = 200 * time.Millisecond
	defaultMaxRetry     = 5 * time.Second
)

// RetryPolicy paces the delay between a failed attempt and its
// re-enqueue. The number of attempts is governed by the job's
// MaxRetries, not by the policy.
//
// A zero policy means failed jobs are re-enqueued immediately.
type RetryPolicy struct {
	// Initial is the first backoff duration.
	Initial time.Duration

	// Max is the cap for backoff duration.
	Max time.Duration
}

// DefaultRetryPolicy returns the backoff pacing used by the demo
// binary. Useful in tests or when constructing a pool with the same
// defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Initial: defaultInitialRetry,
		Max:     defaultMaxRetry,
	}
}
