package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiConfig configures the primary provider caller.
type GeminiConfig struct {
	APIKey        string
	SearchEnabled bool
}

// GeminiCaller calls the Gemini generative models. It is the primary
// provider: the orchestrator walks its model fallback chain through this
// caller.
type GeminiCaller struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGeminiCaller builds the caller, or fails when no API key is configured.
func NewGeminiCaller(ctx context.Context, cfg GeminiConfig) (*GeminiCaller, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiCaller{client: client, cfg: cfg}, nil
}

// Name identifies the provider in metrics and results.
func (g *GeminiCaller) Name() string { return ProviderGemini }

// Call runs a single completion against the given model and returns the raw
// concatenated text parts. Any response shape is tolerated; JSON extraction
// happens in the orchestrator. Search grounding is attached when either the
// per-call flag or the construction-time default asks for it.
func (g *GeminiCaller) Call(ctx context.Context, model, prompt string, opts CallOptions) (string, error) {
	generative := g.client.GenerativeModel(model)
	generative.Tools = searchRetrievalTools(g.cfg.SearchEnabled || opts.SearchEnabled)

	resp, err := generative.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}

	if builder.Len() == 0 {
		return "", ErrEmptyResponse
	}

	return builder.String(), nil
}

// Close releases the underlying client connection.
func (g *GeminiCaller) Close() error {
	return g.client.Close()
}

func searchRetrievalTools(enabled bool) []*genai.Tool {
	if !enabled {
		return nil
	}
	return []*genai.Tool{{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}}}
}
