package llm

import (
	"fmt"
	"strings"
)

// NewGenerator creates a generation provider based on configuration
func NewGenerator(config Config) (Generator, error) {
	switch strings.ToLower(config.Provider) {
	case "ollama":
		return NewOllamaProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "":
		return nil, fmt.Errorf("generation provider is required (supported: ollama, openai, anthropic)")

	default:
		return nil, fmt.Errorf("unknown generation provider: %s (supported: ollama, openai, anthropic)", config.Provider)
	}
}

// NewEmbedder creates an embedding provider based on configuration
func NewEmbedder(config Config) (Embedder, error) {
	switch strings.ToLower(config.Provider) {
	case "ollama":
		return NewOllamaProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, fmt.Errorf("embedding provider is required (supported: ollama, openai)")

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: ollama, openai)", config.Provider)
	}
}
