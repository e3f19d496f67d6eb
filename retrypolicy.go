package agedpool

import (
	"time"
)

const (
	defaultRetryAttempts = 3
	defaultInitialRetry  = 200 * time.Millisecond
	defaultMaxRetry      = 5 * time.Second
)

// RetryPolicy describes how many times and how often a failing task should
// be retried before its error is delivered. Zero values mean "no retries":
// the first error is final, matching the single-failure delivery contract
// of the completion handle.
type RetryPolicy struct {
	// Attempts is the maximum number of tries for a task.
	Attempts int

	// Initial is the first backoff duration.
	Initial time.Duration

	// Max is the cap for backoff duration.
	Max time.Duration
}

// GetDefaultRP returns a pointer to a retry policy with the package
// defaults. Useful in tests or when opting a pool into retries.
func GetDefaultRP() *RetryPolicy {
	rp := RetryPolicy{
		Attempts: defaultRetryAttempts,
		Initial:  defaultInitialRetry,
		Max:      defaultMaxRetry,
	}
	return &rp
}

// normalize resolves the effective attempt count and backoff bounds.
func (rp RetryPolicy) normalize() RetryPolicy {
	if rp.Attempts <= 0 {
		rp.Attempts = 1
	}
	if rp.Initial <= 0 {
		rp.Initial = defaultInitialRetry
	}
	if rp.Max <= 0 {
		rp.Max = defaultMaxRetry
	}
	return rp
}
