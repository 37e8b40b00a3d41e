package llm

import (
	"context"
	"time"
)

// RetryingProvider wraps a Provider with bounded retry and exponential
// backoff. Transport failures and timeouts are retried; a cancelled caller
// context is not.
type RetryingProvider struct {
	provider Provider
	delays   []time.Duration
}

// NewRetryingProvider wraps the given provider with up to retries additional
// attempts, backing off 1s, 2s, 4s, ...
func NewRetryingProvider(provider Provider, retries int) *RetryingProvider {
	delays := make([]time.Duration, retries)
	for i := range delays {
		delays[i] = time.Duration(1<<i) * time.Second
	}
	return NewRetryingProviderDelays(provider, delays)
}

// NewRetryingProviderDelays is like NewRetryingProvider but with explicit
// backoff delays, so tests can run without waiting.
func NewRetryingProviderDelays(provider Provider, delays []time.Duration) *RetryingProvider {
	return &RetryingProvider{provider: provider, delays: delays}
}

func (r *RetryingProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	maxAttempts := len(r.delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := r.provider.Complete(ctx, req)
		if err == nil {
			// An empty completion is a valid response, not a retry trigger.
			return resp, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		// The caller abandoning the request ends the retry loop immediately.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.delays[attempt]):
		}
	}
	return nil, lastErr
}
