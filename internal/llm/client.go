package llm

import (
	"context"
	"fmt"
)

// Generator is the text-generation capability the pipeline depends on
type Generator interface {
	// GenerateContent generates free text using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates a JSON document using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
}

// Client is an abstraction over LLM providers
type Client interface {
	Generator
	// ListModels returns the models reachable with the configured credentials
	ListModels(ctx context.Context) ([]ModelInfo, error)
	// GetModel returns the model name serving a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// ModelInfo describes a model returned by ListModels
type ModelInfo struct {
	Name             string `json:"name"`
	DisplayName      string `json:"display_name,omitempty"`
	SupportsGenerate bool   `json:"supports_generate"`
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderOpenAI:
		return NewOpenAIClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}
