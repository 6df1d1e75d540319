package ai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig configures the secondary provider caller.
type OpenAIConfig struct {
	APIKey      string
	MaxTokens   int
	Temperature float32
}

// OpenAICaller is the secondary provider: one JSON-mode chat completion per
// request, no fallback chain.
type OpenAICaller struct {
	client *openai.Client
	cfg    OpenAIConfig
}

// NewOpenAICaller builds the caller, or fails when no API key is configured.
func NewOpenAICaller(cfg OpenAIConfig) (*OpenAICaller, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	config := openai.DefaultConfig(cfg.APIKey)
	return &OpenAICaller{client: openai.NewClientWithConfig(config), cfg: cfg}, nil
}

// Name identifies the provider in metrics and results.
func (o *OpenAICaller) Name() string { return ProviderOpenAI }

// Call requests a JSON-object response and returns the raw message content.
// There is no search grounding equivalent for this provider, so the option is
// ignored.
func (o *OpenAICaller) Call(ctx context.Context, model, prompt string, _ CallOptions) (string, error) {
	if model == "" {
		model = defaultOpenAIModel
	}

	request := openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := o.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}
