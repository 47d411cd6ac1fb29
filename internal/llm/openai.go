package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// jsonSystemPrompt steers chat models without a JSON response mode
const jsonSystemPrompt = "Respond with a single valid JSON object and nothing else."

// OpenAIClient implements Client using the openai-go chat completions API
type OpenAIClient struct {
	client openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client. config.BaseURL points it at any
// OpenAI-compatible server.
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.complete(ctx, tier, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	})
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.complete(ctx, tier, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(jsonSystemPrompt),
		openai.UserMessage(prompt),
	})
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *OpenAIClient) complete(ctx context.Context, tier ModelTier, msgs []openai.ChatCompletionMessageParamUnion) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &GenerationError{Provider: ProviderOpenAI, Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(modelName),
		Messages:    msgs,
		Temperature: openai.Float(float64(c.config.Temperature)),
	})
	if err != nil {
		return "", wrapCallError(ctx, ProviderOpenAI, modelName, "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Provider: ProviderOpenAI, Model: modelName, Message: "empty choices"}
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels lists the models visible to the API key. The models endpoint
// carries no capability flags, so every model is reported as generation-capable.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	iter := c.client.Models.ListAutoPaging(ctx)
	for iter.Next() {
		m := iter.Current()
		models = append(models, ModelInfo{
			Name:             m.ID,
			DisplayName:      m.OwnedBy,
			SupportsGenerate: true,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, wrapCallError(ctx, ProviderOpenAI, "", "failed to list models", err)
	}
	return models, nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client needs no teardown
func (c *OpenAIClient) Close() error {
	return nil
}
