package llm

import (
	"context"
	"errors"
)

// Client abstracts LLM providers for feedback generation.
type Client interface {
	Complete(ctx context.Context, input CompletionInput) (string, error)
}

// CompletionInput captures a single completion request.
type CompletionInput struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM not configured")

// PlaceholderClient is the stub wired when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, input CompletionInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotConfigured
}
