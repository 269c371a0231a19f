package llm

import (
	"context"
	"time"
)

// Provider defines the interface for interacting with a hosted inference API.
// Implementations handle request formatting, authentication and response
// parsing. Failures are returned as-is; there is no retry.
type Provider interface {
	// Complete sends a chat completion request and returns the full completion.
	Complete(ctx context.Context, req *Request) (*Completion, error)

	// ListModels returns the models available to the configured API key.
	ListModels(ctx context.Context) ([]Model, error)
}

// Config holds connection settings for a provider.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}
