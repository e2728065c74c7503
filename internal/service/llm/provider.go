// Package llm abstracts the external text-generation capability behind a
// provider interface so the pipeline works identically against a real model
// or a deterministic stand-in.
package llm

import "context"

// Provider defines the interface for text-generation providers.
type Provider interface {
	// Complete generates text for a fully assembled instruction block.
	Complete(ctx context.Context, prompt string, options CompletionOptions) (string, error)
	IsAvailable() bool
}

// CompletionOptions configures a single completion request.
type CompletionOptions struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}
