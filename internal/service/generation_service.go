package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/aulaforge/aulaforge-api/internal/dto"
	"github.com/aulaforge/aulaforge-api/pkg/ai"
)

// GenerationDefaults carries the platform-level generation settings; request
// fields override them per call.
type GenerationDefaults struct {
	Provider string
	Model    string
	Tone     string
}

// GenerationService exposes the content-generation call sites backed by the
// shared orchestrator.
type GenerationService interface {
	GenerateProject(ctx context.Context, payload dto.GenerateProjectRequest) (dto.GenerationResponse, error)
	ExtractMetadata(ctx context.Context, payload dto.ExtractMetadataRequest) (dto.GenerationResponse, error)
}

type generationService struct {
	orchestrator   *ai.Orchestrator
	defaults       GenerationDefaults
	validator      *validator.Validate
	sanitizer      *bluemonday.Policy
	projectSchema  *jsonschema.Schema
	metadataSchema *jsonschema.Schema
	logger         zerolog.Logger
}

// NewGenerationService constructs the generation service. The JSON schemas
// for the two payload shapes are compiled once at construction.
func NewGenerationService(orchestrator *ai.Orchestrator, defaults GenerationDefaults, validate *validator.Validate, logger zerolog.Logger) (GenerationService, error) {
	projectSchema, err := compileSchema("project.schema.json", projectStructureSchema)
	if err != nil {
		return nil, err
	}

	metadataSchema, err := compileSchema("metadata.schema.json", oaMetadataSchema)
	if err != nil {
		return nil, err
	}

	if defaults.Tone == "" {
		defaults.Tone = "encouraging"
	}

	return &generationService{
		orchestrator:   orchestrator,
		defaults:       defaults,
		validator:      validate,
		sanitizer:      bluemonday.StrictPolicy(),
		projectSchema:  projectSchema,
		metadataSchema: metadataSchema,
		logger:         logger.With().Str("component", "generation_service").Logger(),
	}, nil
}

func (s *generationService) GenerateProject(ctx context.Context, payload dto.GenerateProjectRequest) (dto.GenerationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GenerationResponse{}, err
	}

	idea := s.sanitizer.Sanitize(strings.TrimSpace(payload.Idea))
	tone := payload.Tone
	if tone == "" {
		tone = s.defaults.Tone
	}

	genCtx := s.buildContext(payload.Provider, payload.Model, payload.TaskType, tone, payload.SearchEnabled)
	prompt := ai.BuildProjectPrompt(payload.TaskType, tone, idea)

	result, err := s.orchestrator.Generate(ctx, genCtx, prompt)
	if err != nil {
		return dto.GenerationResponse{}, err
	}

	if err := s.projectSchema.Validate(map[string]interface{}(result.Data)); err != nil {
		return dto.GenerationResponse{}, &ai.FormatError{Model: result.Model, Reason: fmt.Sprintf("project payload rejected: %v", err)}
	}

	s.logger.Info().Str("model", result.Model).Str("task_type", payload.TaskType).Msg("project structure generated")
	return successResponse(result), nil
}

func (s *generationService) ExtractMetadata(ctx context.Context, payload dto.ExtractMetadataRequest) (dto.GenerationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GenerationResponse{}, err
	}

	description := s.sanitizer.Sanitize(strings.TrimSpace(payload.Description))
	genCtx := s.buildContext(payload.Provider, payload.Model, "", s.defaults.Tone, false)
	prompt := ai.BuildMetadataPrompt(description)

	result, err := s.orchestrator.Generate(ctx, genCtx, prompt)
	if err != nil {
		return dto.GenerationResponse{}, err
	}

	if err := s.metadataSchema.Validate(map[string]interface{}(result.Data)); err != nil {
		return dto.GenerationResponse{}, &ai.FormatError{Model: result.Model, Reason: fmt.Sprintf("metadata payload rejected: %v", err)}
	}

	s.logger.Info().Str("model", result.Model).Msg("learning object metadata extracted")
	return successResponse(result), nil
}

// buildContext assembles the per-call generation context from the explicit
// defaults and the request overrides.
func (s *generationService) buildContext(provider, model, taskType, tone string, searchEnabled bool) ai.Context {
	if provider == "" {
		provider = s.defaults.Provider
	}
	if model == "" {
		model = s.defaults.Model
	}

	return ai.Context{
		TaskType:      taskType,
		Tone:          tone,
		SearchEnabled: searchEnabled,
		Provider:      ai.ProviderConfig{Name: provider, Model: model},
	}
}

func successResponse(result ai.Result) dto.GenerationResponse {
	return dto.GenerationResponse{
		Success:  true,
		Data:     result.Data,
		Provider: result.Provider,
		Model:    result.Model,
	}
}

func compileSchema(name, schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}

	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	return compiled, nil
}
