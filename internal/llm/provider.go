// Package llm wraps the embedding and generation service boundaries.
// Providers make at most one attempt per call; retry policy, if any,
// belongs to the caller.
package llm

import (
	"context"

	"github.com/mkravets/claimlens/internal/model"
)

// Generator defines the interface for text generation providers
type Generator interface {
	// Name returns the provider name
	Name() string

	// Generate produces text for a single prompt
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Embedder defines the interface for embedding providers
type Embedder interface {
	// Name returns the provider name
	Name() string

	// Embed converts text into a fixed-dimension vector
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GenerateRequest contains the input for text generation
type GenerateRequest struct {
	// Prompt is the full grounded prompt
	Prompt string

	// System is the system instruction (provider default when empty)
	System string

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// GenerateResponse contains the generator's raw output
type GenerateResponse struct {
	// Text is the generated text, untouched
	Text string

	// Model is the model that produced the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "ollama", "openai", "anthropic"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultGenerationSystem is the system instruction used when the caller
// supplies none
const DefaultGenerationSystem = "You are an insurance policy analyst. You answer strictly from the supplied policy sources and return valid JSON."

// ConfigFromModel converts a model.ProviderConfig to llm.Config
func ConfigFromModel(mc model.ProviderConfig) Config {
	return Config{
		Provider:   mc.Provider,
		Model:      mc.Model,
		APIKey:     mc.APIKey,
		BaseURL:    mc.BaseURL,
		Timeout:    mc.Timeout,
		MaxTokens:  mc.MaxTokens,
		HTTPProxy:  mc.HTTPProxy,
		HTTPSProxy: mc.HTTPSProxy,
		NoProxy:    mc.NoProxy,
	}
}
