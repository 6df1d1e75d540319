package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/aulaforge/aulaforge-api/internal/dto"
	"github.com/aulaforge/aulaforge-api/internal/models"
	"github.com/aulaforge/aulaforge-api/internal/repository"
	"github.com/aulaforge/aulaforge-api/internal/scoring"
	"github.com/aulaforge/aulaforge-api/pkg/ai"
)

// ErrNoRubricItems indicates grade suggestions were requested for a
// submission whose task has no rubric.
var ErrNoRubricItems = errors.New("task has no rubric items to suggest scores for")

// DefaultSuggestionDeadline bounds how long a grading suggestion may take
// before the caller sees a timeout instead of the eventual provider answer.
const DefaultSuggestionDeadline = 120 * time.Second

// GradeSuggestionService races one orchestrator call against an advisory
// deadline and merges a successful suggestion into the grader's in-memory
// rubric state. Nothing is persisted here.
type GradeSuggestionService interface {
	Suggest(ctx context.Context, submissionID uint, payload dto.GradeSuggestionRequest) (dto.GradeSuggestionResponse, error)
}

type gradeSuggestionService struct {
	submissions  repository.SubmissionRepository
	orchestrator *ai.Orchestrator
	defaults     GenerationDefaults
	validator    *validator.Validate
	schema       *jsonschema.Schema
	deadline     time.Duration
	logger       zerolog.Logger
}

// NewGradeSuggestionService constructs the coordinator.
func NewGradeSuggestionService(submissions repository.SubmissionRepository, orchestrator *ai.Orchestrator, defaults GenerationDefaults, validate *validator.Validate, deadline time.Duration, logger zerolog.Logger) (GradeSuggestionService, error) {
	schema, err := compileSchema("suggestion.schema.json", gradeSuggestionSchema)
	if err != nil {
		return nil, err
	}

	if deadline <= 0 {
		deadline = DefaultSuggestionDeadline
	}

	return &gradeSuggestionService{
		submissions:  submissions,
		orchestrator: orchestrator,
		defaults:     defaults,
		validator:    validate,
		schema:       schema,
		deadline:     deadline,
		logger:       logger.With().Str("component", "grade_suggestion_service").Logger(),
	}, nil
}

type suggestionOutcome struct {
	result ai.Result
	err    error
}

func (s *gradeSuggestionService) Suggest(parent context.Context, submissionID uint, payload dto.GradeSuggestionRequest) (dto.GradeSuggestionResponse, error) {
	tracer := otel.Tracer("github.com/aulaforge/aulaforge-api/internal/service/grade_suggestion")
	parent, span := tracer.Start(parent, "grading.suggest")
	span.SetAttributes(attribute.Int64("grading.submission_id", int64(submissionID)))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.GradeSuggestionResponse{}, err
	}

	submission, err := s.submissions.GetByID(parent, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeSuggestionResponse{}, ErrSubmissionNotFound
		}
		return dto.GradeSuggestionResponse{}, err
	}

	items := submission.Task.RubricItems
	if len(items) == 0 {
		return dto.GradeSuggestionResponse{}, ErrNoRubricItems
	}

	// Seed the evaluator with the grader's current unsaved edits; a
	// successful suggestion overwrites them, which callers confirm before
	// invoking this operation.
	evaluator := scoring.NewRubricEvaluator(items, submission.RubricScores)
	for _, input := range payload.CurrentScores {
		evaluator.SetScore(input.RubricItemID, input.Score)
		evaluator.SetFeedback(input.RubricItemID, input.Feedback)
	}

	deadline := s.deadline
	if payload.DeadlineMs > 0 {
		deadline = time.Duration(payload.DeadlineMs) * time.Millisecond
	}

	prompt := s.buildPrompt(submission, items)
	genCtx := ai.Context{
		Tone:     s.defaults.Tone,
		Provider: ai.ProviderConfig{Name: orDefault(payload.Provider, s.defaults.Provider), Model: orDefault(payload.Model, s.defaults.Model)},
	}

	// Race the orchestrator against the deadline. The context is cancelled
	// when the timer wins so the losing call is abandoned at the transport
	// level too, but the caller-visible contract is only the timeout error
	// at the deadline.
	ctx, cancel := context.WithTimeout(parent, deadline)
	defer cancel()

	outcomes := make(chan suggestionOutcome, 1)
	go func() {
		result, err := s.orchestrator.Generate(ctx, genCtx, prompt)
		outcomes <- suggestionOutcome{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		// The parent context going away (client disconnect, server
		// shutdown) is a cancellation, not a deadline hit.
		if cause := parent.Err(); cause != nil {
			span.RecordError(cause)
			span.SetStatus(codes.Error, "suggestion_cancelled")
			return dto.GradeSuggestionResponse{}, cause
		}

		timeoutErr := &ai.TimeoutError{Deadline: deadline}
		span.RecordError(timeoutErr)
		span.SetStatus(codes.Error, "suggestion_timeout")
		s.logger.Warn().Uint("submission_id", submissionID).Dur("deadline", deadline).Msg("grade suggestion timed out")
		return dto.GradeSuggestionResponse{}, timeoutErr
	case outcome := <-outcomes:
		if outcome.err != nil {
			span.RecordError(outcome.err)
			span.SetStatus(codes.Error, "suggestion_failed")
			return dto.GradeSuggestionResponse{}, outcome.err
		}
		return s.merge(evaluator, items, outcome.result)
	}
}

// merge validates the suggestion payload and applies it onto the evaluator.
func (s *gradeSuggestionService) merge(evaluator *scoring.RubricEvaluator, items []models.RubricItem, result ai.Result) (dto.GradeSuggestionResponse, error) {
	if err := s.schema.Validate(map[string]interface{}(result.Data)); err != nil {
		return dto.GradeSuggestionResponse{}, &ai.FormatError{Model: result.Model, Reason: fmt.Sprintf("suggestion payload rejected: %v", err)}
	}

	parsed := struct {
		Suggestions []struct {
			RubricItemID uint    `json:"rubricItemId"`
			Score        float64 `json:"score"`
			Feedback     string  `json:"feedback"`
		} `json:"suggestions"`
		GeneralFeedback string `json:"generalFeedback"`
	}{}

	raw, err := json.Marshal(result.Data)
	if err != nil {
		return dto.GradeSuggestionResponse{}, err
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return dto.GradeSuggestionResponse{}, &ai.FormatError{Model: result.Model, Reason: "suggestion payload not decodable: " + err.Error()}
	}

	suggestions := make([]scoring.Suggestion, 0, len(parsed.Suggestions))
	for _, suggestion := range parsed.Suggestions {
		suggestions = append(suggestions, scoring.Suggestion{
			RubricItemID: suggestion.RubricItemID,
			Score:        suggestion.Score,
			Feedback:     suggestion.Feedback,
		})
	}
	evaluator.Apply(suggestions)

	snapshot := evaluator.Scores()
	states := make([]dto.RubricScoreState, 0, len(items))
	for i, item := range items {
		states = append(states, dto.RubricScoreState{
			RubricItemID: item.ID,
			Criterion:    item.Criterion,
			MaxPoints:    item.MaxPoints,
			Score:        snapshot[i].Score,
			Feedback:     snapshot[i].Feedback,
		})
	}

	return dto.GradeSuggestionResponse{
		Scores:          states,
		GeneralFeedback: parsed.GeneralFeedback,
		Total:           evaluator.Total(),
		Max:             evaluator.Max(),
		Provider:        result.Provider,
		Model:           result.Model,
	}, nil
}

func (s *gradeSuggestionService) buildPrompt(submission models.Submission, items []models.RubricItem) string {
	criteria := make([]ai.RubricCriterion, 0, len(items))
	for _, item := range items {
		criteria = append(criteria, ai.RubricCriterion{ID: item.ID, Criterion: item.Criterion, MaxPoints: item.MaxPoints})
	}

	documentRef := submission.FileURL
	if documentRef == "" {
		answers := submission.AnswerMap()
		parts := make([]string, 0, len(answers))
		for id, answer := range answers {
			parts = append(parts, fmt.Sprintf("%s: %s", id, answer))
		}
		documentRef = "quiz answers: " + strings.Join(parts, "; ")
	}

	return ai.BuildGradingPrompt(submission.Task.Title, documentRef, criteria)
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
