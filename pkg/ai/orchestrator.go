package ai

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aulaforge",
		Subsystem: "ai",
		Name:      "generation_duration_seconds",
		Help:      "Duration of AI generation attempts",
	}, []string{"provider", "model"})

	generationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aulaforge",
		Subsystem: "ai",
		Name:      "generation_failures_total",
		Help:      "Number of failed AI generation attempts",
	}, []string{"provider", "model"})
)

// Orchestrator drives generation requests across the configured providers.
// The primary provider is retried over an ordered model fallback chain; the
// secondary provider gets a single JSON-mode attempt with no fallback.
type Orchestrator struct {
	primary        ModelCaller
	secondary      ModelCaller
	fallbackModels []string
	tracer         trace.Tracer
	logger         zerolog.Logger
}

// DefaultFallbackModels is the fixed candidate list appended after the
// configured model for the primary provider.
var DefaultFallbackModels = []string{
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
}

// NewOrchestrator wires an orchestrator from the available provider callers.
// Either caller may be nil when the corresponding API key is not configured;
// selecting an unavailable provider fails with ErrMissingAPIKey at call time.
func NewOrchestrator(primary, secondary ModelCaller, fallbackModels []string, logger zerolog.Logger) *Orchestrator {
	if len(fallbackModels) == 0 {
		fallbackModels = DefaultFallbackModels
	}

	return &Orchestrator{
		primary:        primary,
		secondary:      secondary,
		fallbackModels: fallbackModels,
		tracer:         otel.Tracer("github.com/aulaforge/aulaforge-api/pkg/ai"),
		logger:         logger.With().Str("component", "generation_orchestrator").Logger(),
	}
}

// Generate runs one generation request and returns the first successfully
// parsed payload. Every failure is returned as a typed error; Generate never
// panics on provider misbehaviour.
func (o *Orchestrator) Generate(parent context.Context, genCtx Context, prompt string) (Result, error) {
	ctx, span := o.tracer.Start(parent, "ai.generate", trace.WithAttributes(
		attribute.String("ai.provider", genCtx.Provider.Name),
		attribute.String("ai.task_type", genCtx.TaskType),
	))
	defer span.End()

	var (
		result Result
		err    error
	)

	switch genCtx.Provider.Name {
	case ProviderOpenAI:
		result, err = o.generateSecondary(ctx, genCtx, prompt)
	default:
		result, err = o.generatePrimary(ctx, genCtx, prompt)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	span.SetAttributes(attribute.String("ai.model", result.Model))
	return result, nil
}

// generatePrimary walks the model fallback chain strictly sequentially. The
// first successful parse short-circuits the remaining candidates; every
// failure is recorded with per-model attribution.
func (o *Orchestrator) generatePrimary(ctx context.Context, genCtx Context, prompt string) (Result, error) {
	if o.primary == nil {
		return Result{}, ErrMissingAPIKey
	}

	candidates := candidateModels(genCtx.Provider.Model, o.fallbackModels)
	attempts := make([]string, 0, len(candidates))
	opts := CallOptions{SearchEnabled: genCtx.SearchEnabled}

	for _, model := range candidates {
		start := time.Now()
		text, err := o.primary.Call(ctx, model, prompt, opts)
		generationDuration.WithLabelValues(o.primary.Name(), model).Observe(time.Since(start).Seconds())

		if err != nil {
			generationFailures.WithLabelValues(o.primary.Name(), model).Inc()
			callErr := &CallError{Model: model, Err: err}
			attempts = append(attempts, callErr.Error())
			o.logger.Warn().Str("model", model).Err(err).Msg("generation candidate failed")
			continue
		}

		data, parseErr := parsePayload(model, text)
		if parseErr != nil {
			generationFailures.WithLabelValues(o.primary.Name(), model).Inc()
			attempts = append(attempts, parseErr.Error())
			o.logger.Warn().Str("model", model).Str("reason", parseErr.Reason).Msg("generation response not parsable")
			continue
		}

		return Result{Data: data, Provider: o.primary.Name(), Model: model}, nil
	}

	return Result{}, &ChainError{Attempts: attempts}
}

// generateSecondary performs the single JSON-mode attempt. There is no
// fallback chain for this provider.
func (o *Orchestrator) generateSecondary(ctx context.Context, genCtx Context, prompt string) (Result, error) {
	if o.secondary == nil {
		return Result{}, ErrMissingAPIKey
	}

	model := genCtx.Provider.Model
	start := time.Now()
	text, err := o.secondary.Call(ctx, model, prompt, CallOptions{SearchEnabled: genCtx.SearchEnabled})
	generationDuration.WithLabelValues(o.secondary.Name(), model).Observe(time.Since(start).Seconds())
	if err != nil {
		generationFailures.WithLabelValues(o.secondary.Name(), model).Inc()
		return Result{}, &CallError{Model: model, Err: err}
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		generationFailures.WithLabelValues(o.secondary.Name(), model).Inc()
		return Result{}, &FormatError{Model: model, Reason: "invalid JSON response: " + err.Error()}
	}

	return Result{Data: data, Provider: o.secondary.Name(), Model: model}, nil
}

func parsePayload(model, text string) (map[string]interface{}, *FormatError) {
	span, ok := ExtractJSONObject(text)
	if !ok {
		return nil, &FormatError{Model: model, Reason: "no JSON object found in response"}
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(span), &data); err != nil {
		return nil, &FormatError{Model: model, Reason: "invalid JSON in response: " + err.Error()}
	}

	return data, nil
}

// candidateModels builds the ordered, deduplicated candidate list: the
// configured model first, then the fixed fallbacks.
func candidateModels(configured string, fallbacks []string) []string {
	candidates := make([]string, 0, len(fallbacks)+1)
	seen := map[string]bool{}

	appendModel := func(model string) {
		if model == "" || seen[model] {
			return
		}
		seen[model] = true
		candidates = append(candidates, model)
	}

	appendModel(configured)
	for _, model := range fallbacks {
		appendModel(model)
	}

	return candidates
}
