// Package ai defines the optional text-generation and embedding capabilities
// used by the scoring pipeline.
package ai

import (
	"context"
	"errors"
)

// ErrUnconfigured is returned by a capability that has no API key. Callers
// treat it as a normal state and switch to their deterministic fallback.
var ErrUnconfigured = errors.New("ai service is not configured")

// GenerateOptions tunes a single generation request.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Embedder produces one vector per input text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Status describes how the AI capabilities are configured.
type Status struct {
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	EmbeddingModel string `json:"embedding_model"`
	BaseURL        string `json:"base_url"`
	KeyConfigured  bool   `json:"key_configured"`
}
