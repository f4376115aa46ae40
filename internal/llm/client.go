// Package llm provides clients for the text-completion providers that
// back the structuring engine.
package llm

import (
	"context"
	"fmt"
)

// Client is an abstraction over text-completion providers.
type Client interface {
	// Generate sends one prompt and returns the raw completion text.
	Generate(ctx context.Context, prompt string) (string, error)
	// Ping verifies the provider is reachable. It is checked once as a
	// run precondition, never per call.
	Ping(ctx context.Context) error
	// Model returns the configured model name.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a provider client based on configuration.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	case ProviderOllama, "":
		return NewOllamaClient(config), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", config.Provider)
	}
}
