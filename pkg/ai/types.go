// Package ai contains the generation orchestrator and its provider callers.
// One orchestrator instance serves every generation call site; only the
// prompt and the expected payload shape vary.
package ai

import "context"

// Provider identifiers selectable through the generation context.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ProviderConfig selects the provider and preferred model for one call. It is
// assembled explicitly per invocation; the orchestrator never reads global
// state.
type ProviderConfig struct {
	Name  string
	Model string
}

// Context carries the per-call generation settings. It is never persisted.
type Context struct {
	TaskType      string
	Tone          string
	SearchEnabled bool
	Provider      ProviderConfig
}

// Result is a successful generation outcome: the parsed JSON payload plus
// the provider/model that produced it.
type Result struct {
	Data     map[string]interface{}
	Provider string
	Model    string
}

// CallOptions carries per-call settings the orchestrator forwards to the
// provider. Callers that have no equivalent feature ignore the fields they
// cannot honor.
type CallOptions struct {
	SearchEnabled bool
}

// ModelCaller abstracts a single raw text completion against one model. The
// returned text may contain code fences or surrounding prose; the
// orchestrator extracts the JSON span itself.
type ModelCaller interface {
	Call(ctx context.Context, model, prompt string, opts CallOptions) (string, error)
	Name() string
}
