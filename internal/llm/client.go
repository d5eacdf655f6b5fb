// Package llm provides the text-generation fallback collaborator used when
// heuristic extraction finds nothing in a document.
package llm

import (
	"context"
	"fmt"
)

// Request is one completion request.
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Response is the raw completion text. The caller extracts structured data
// from it; the text may contain surrounding prose.
type Response struct {
	Text string
}

// Client defines the text-in/text-out contract of the generative
// collaborator.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Config selects and configures a client implementation.
type Config struct {
	Provider          string
	APIKey            string
	Model             string
	BaseURL           string
	RequestsPerMinute int
}

// NewClient creates a client for the configured provider.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "openai", "":
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
