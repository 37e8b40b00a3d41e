package llm

import (
	"context"
	"time"
)

// TimeoutProvider bounds every completion call with its own deadline while
// still honouring cancellation from the caller's context.
type TimeoutProvider struct {
	provider Provider
	timeout  time.Duration
}

// NewTimeoutProvider wraps the given provider with a per-call timeout.
func NewTimeoutProvider(provider Provider, timeout time.Duration) *TimeoutProvider {
	return &TimeoutProvider{provider: provider, timeout: timeout}
}

func (t *TimeoutProvider) Name() string {
	return t.provider.Name()
}

func (t *TimeoutProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.provider.Complete(callCtx, req)
}
