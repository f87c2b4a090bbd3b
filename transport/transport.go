// Package transport carries requests to the permission service over HTTP,
// applying the retry policy and mapping responses onto the SDK error
// taxonomy. The layers above treat it as an opaque operation that either
// returns a result or fails.
package transport

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Transport executes one service operation. body is marshalled to JSON when
// non-nil; a non-nil out receives the decoded response body.
type Transport interface {
	Execute(ctx context.Context, method, endpoint string, body, out interface{}) error
	Close() error
}

// RetryPolicy is the explicit retry model the transport applies: attempt
// count, exponential backoff curve, and the set of HTTP statuses worth
// retrying. Conflicts are never retried regardless of configuration.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BaseDelay is the first backoff interval.
	BaseDelay time.Duration
	// Multiplier grows the interval between attempts.
	Multiplier float64
	// RetryableStatus holds the HTTP statuses that trigger a retry.
	RetryableStatus map[int]bool
}

// NewRetryPolicy builds a policy from the flat configuration values.
func NewRetryPolicy(maxRetries int, baseDelay time.Duration, multiplier float64, statuses []int) RetryPolicy {
	retryable := make(map[int]bool, len(statuses))
	for _, s := range statuses {
		retryable[s] = true
	}
	return RetryPolicy{
		MaxRetries:      maxRetries,
		BaseDelay:       baseDelay,
		Multiplier:      multiplier,
		RetryableStatus: retryable,
	}
}

// newBackOff creates the per-call backoff state for this policy.
func (p RetryPolicy) newBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.BaseDelay
	bo.Multiplier = p.Multiplier
	bo.RandomizationFactor = 0.1
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}
