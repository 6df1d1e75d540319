package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/aulaforge/aulaforge-api/internal/dto"
	"github.com/aulaforge/aulaforge-api/internal/models"
	"github.com/aulaforge/aulaforge-api/internal/repository"
	"github.com/aulaforge/aulaforge-api/internal/scoring"
)

// ErrSubmissionNotFound indicates the submission could not be located.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrUnknownRubricItem indicates a score referenced an item that does not
// belong to the submission's task.
var ErrUnknownRubricItem = errors.New("rubric score references an unknown rubric item")

// ErrQuizOverrideRequired indicates a manually graded quiz was saved without
// the required score override.
var ErrQuizOverrideRequired = errors.New("quiz score override is required for manual grading")

// ErrOverrideExceedsMax indicates the manual quiz score surpasses the quiz
// maximum.
var ErrOverrideExceedsMax = errors.New("quiz score override exceeds the quiz maximum")

// Grader identifies the teacher performing the grading action.
type Grader struct {
	ID uint
}

// GradingService is the persistence boundary for grading: it resolves the
// final score from the rubric/quiz state and saves it atomically.
type GradingService interface {
	Grade(ctx context.Context, submissionID uint, payload dto.GradeSubmissionRequest, grader Grader) (dto.SubmissionResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	events      EventPublisher
	summaries   SummaryInvalidator
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(submissions repository.SubmissionRepository, validate *validator.Validate, events EventPublisher, summaries SummaryInvalidator, logger zerolog.Logger) GradingService {
	return &gradingService{
		submissions: submissions,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		events:      events,
		summaries:   summaries,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, submissionID uint, payload dto.GradeSubmissionRequest, grader Grader) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/aulaforge/aulaforge-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.save")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.grader_id", int64(grader.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	evaluator, err := s.resolveEvaluator(submission, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "score_resolution_failed")
		return dto.SubmissionResponse{}, err
	}

	grade := evaluator.Total()
	gradedAt := s.now()
	gradedBy := grader.ID
	feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.GeneralFeedback))

	submission.Grade = &grade
	submission.Feedback = feedback
	submission.Status = models.SubmissionStatusGraded
	submission.GradedAt = &gradedAt
	submission.GradedBy = &gradedBy

	history := &models.SubmissionGradeHistory{
		Score:    grade,
		Feedback: feedback,
		GradedBy: grader.ID,
		GradedAt: gradedAt,
	}

	if err := s.submissions.SaveGrade(ctx, &submission, evaluator.Scores(), history); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_save_failed")
		return dto.SubmissionResponse{}, err
	}

	if s.summaries != nil {
		s.summaries.Invalidate(ctx, submission.StudentID)
	}

	publishEvent(ctx, s.events, s.logger, Event{
		Action:       EventSubmissionGraded,
		SubmissionID: submission.ID,
		TaskID:       submission.TaskID,
		StudentID:    submission.StudentID,
		ActorID:      grader.ID,
		Metadata:     map[string]interface{}{"score": grade},
	})

	span.SetAttributes(attribute.Float64("grading.score", grade))

	saved, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(saved), nil
}

// resolveEvaluator builds the rubric state from the payload and resolves the
// authoritative total: rubric sum for file tasks, automatic or overridden
// quiz score for quiz tasks.
func (s *gradingService) resolveEvaluator(submission models.Submission, payload dto.GradeSubmissionRequest) (*scoring.RubricEvaluator, error) {
	items := submission.Task.RubricItems
	known := make(map[uint]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}
	for _, input := range payload.RubricScores {
		if !known[input.RubricItemID] {
			return nil, ErrUnknownRubricItem
		}
	}

	evaluator := scoring.NewRubricEvaluator(items, submission.RubricScores)
	for _, input := range payload.RubricScores {
		evaluator.SetScore(input.RubricItemID, input.Score)
		evaluator.SetFeedback(input.RubricItemID, strings.TrimSpace(s.sanitizer.Sanitize(input.Feedback)))
	}

	if len(items) > 0 || !submission.Task.IsQuiz() {
		return evaluator, nil
	}

	spec, err := models.ParseQuizSpec(submission.Task.QuizSpec)
	if err != nil {
		return nil, err
	}

	maxScore := scoring.ComputeMaxScore(spec.Questions)
	switch spec.GradingMethod {
	case models.GradingMethodManual:
		if payload.QuizScoreOverride == nil {
			return nil, ErrQuizOverrideRequired
		}
		if *payload.QuizScoreOverride > maxScore {
			return nil, ErrOverrideExceedsMax
		}
		evaluator.SetQuizFallback(*payload.QuizScoreOverride, maxScore)
	default:
		evaluator.SetQuizFallback(scoring.ComputeScore(spec.Questions, submission.AnswerMap()), maxScore)
	}

	return evaluator, nil
}
