package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds retries around a model call. Only transient failures
// (rate limits, 5xx, network errors) are retried; API errors with other
// status codes propagate immediately.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 2 * time.Second,
		MaxInterval:     30 * time.Second,
	}
}

// ChatWithRetry wraps provider.Chat in the given retry policy.
func ChatWithRetry(ctx context.Context, provider Provider, policy RetryPolicy, history []Message, options ...Option) (string, error) {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = policy.InitialInterval
	bo.MaxInterval = policy.MaxInterval

	var reply string
	operation := func() error {
		var err error
		reply, err = provider.Chat(ctx, history, options...)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Transient() {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(policy.MaxAttempts-1)), ctx))
	if err != nil {
		return "", err
	}
	return reply, nil
}
