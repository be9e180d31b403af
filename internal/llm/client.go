package llm

import (
	"context"
)

// LLMClient is an interface for invoking LLM models
// This allows mocking in tests without making real API calls
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}

// ClientFunc adapts a function to LLMClient.
type ClientFunc func(ctx context.Context, request LLMRequest) (*LLMResponse, error)

func (f ClientFunc) InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	return f(ctx, request)
}
