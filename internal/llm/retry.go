package llm

import (
	"context"
	"log"
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds how often a failed model call is repeated.
// Only call failures are retried; responses that fail to decode are not.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryPolicy makes a single attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 0, BaseDelay: 500 * time.Millisecond}
}

type retryClient struct {
	Client
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps client so GenerateJSON is retried with jittered exponential backoff.
// A policy with no retries returns client unchanged.
func WithRetry(client Client, policy RetryPolicy) Client {
	if policy.MaxRetries <= 0 {
		return client
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryPolicy().BaseDelay
	}
	return &retryClient{Client: client, policy: policy, sleep: sleepContext}
}

func (c *retryClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(c.policy.BaseDelay, attempt)
			log.Printf("[llm] %s attempt %d/%d failed: %v; retrying in %s",
				req.Op, attempt, c.policy.MaxRetries+1, lastErr, delay)
			if err := c.sleep(ctx, delay); err != nil {
				return "", err
			}
		}

		text, err := c.Client.GenerateJSON(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", lastErr
		}
	}
	return "", lastErr
}

// backoff returns base*2^(attempt-1) plus up to 50% jitter.
func backoff(base time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	return d + time.Duration(rand.Int64N(int64(d)/2+1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
