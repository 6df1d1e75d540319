package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aulaforge/aulaforge-api/internal/dto"
	"github.com/aulaforge/aulaforge-api/internal/models"
	"github.com/aulaforge/aulaforge-api/internal/repository"
)

// ErrTaskNotFound indicates the task could not be located.
var ErrTaskNotFound = errors.New("task not found")

// ErrAlreadySubmitted indicates a submission already exists for the
// (task, student) pair. Students may submit again only after a reset.
var ErrAlreadySubmitted = errors.New("submission already exists for this task and student")

// ErrResetNotAllowed indicates a reset was attempted on a file-type
// submission; only quiz submissions can be reset.
var ErrResetNotAllowed = errors.New("only quiz submissions can be reset")

// ErrAnswersRequired indicates a quiz submission without an answer map.
var ErrAnswersRequired = errors.New("quiz submissions require answers")

// ErrFileRequired indicates a file submission without a file reference.
var ErrFileRequired = errors.New("file submissions require a file url")

// SubmissionService governs the submission lifecycle: creation, status
// derivation, and the destructive reset transition.
type SubmissionService interface {
	Submit(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	Status(ctx context.Context, taskID, studentID uint) (dto.SubmissionStatusResponse, error)
	Reset(ctx context.Context, id uint, actorID uint) error
}

type submissionService struct {
	submissions repository.SubmissionRepository
	tasks       repository.TaskRepository
	validator   *validator.Validate
	events      EventPublisher
	summaries   SummaryInvalidator
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissions repository.SubmissionRepository, tasks repository.TaskRepository, validate *validator.Validate, events EventPublisher, summaries SummaryInvalidator, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		tasks:       tasks,
		validator:   validate,
		events:      events,
		summaries:   summaries,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	task, err := s.tasks.GetByID(ctx, payload.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrTaskNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if task.IsQuiz() && len(payload.Answers) == 0 {
		return dto.SubmissionResponse{}, ErrAnswersRequired
	}
	if !task.IsQuiz() && payload.FileURL == "" {
		return dto.SubmissionResponse{}, ErrFileRequired
	}

	if _, err := s.submissions.GetByTaskAndStudent(ctx, payload.TaskID, payload.StudentID); err == nil {
		return dto.SubmissionResponse{}, ErrAlreadySubmitted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		TaskID:    payload.TaskID,
		StudentID: payload.StudentID,
		FileURL:   payload.FileURL,
		Status:    models.SubmissionStatusSubmitted,
	}

	if len(payload.Answers) > 0 {
		raw, err := json.Marshal(payload.Answers)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}
		submission.Answers = datatypes.JSON(raw)
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", created.ID).Uint("task_id", created.TaskID).Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// Status derives the lifecycle state for a (task, student) pair. The absence
// of a submission row means not submitted; there is no stored flag for it.
func (s *submissionService) Status(ctx context.Context, taskID, studentID uint) (dto.SubmissionStatusResponse, error) {
	response := dto.SubmissionStatusResponse{
		TaskID:    taskID,
		StudentID: studentID,
		Status:    models.SubmissionStatusNotSubmitted,
	}

	submission, err := s.submissions.GetByTaskAndStudent(ctx, taskID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response, nil
		}
		return dto.SubmissionStatusResponse{}, err
	}

	response.Status = submission.Status
	response.SubmissionID = &submission.ID
	response.Grade = submission.Grade

	return response, nil
}

// Reset deletes the submission row entirely. It is only valid for quiz
// submissions and cannot be undone; the student may submit again afterwards
// as if for the first time.
func (s *submissionService) Reset(ctx context.Context, id uint, actorID uint) error {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	if !submission.Task.IsQuiz() {
		return ErrResetNotAllowed
	}

	if err := s.submissions.Delete(ctx, submission.ID); err != nil {
		return err
	}

	if s.summaries != nil {
		s.summaries.Invalidate(ctx, submission.StudentID)
	}

	publishEvent(ctx, s.events, s.logger, Event{
		Action:       EventSubmissionReset,
		SubmissionID: submission.ID,
		TaskID:       submission.TaskID,
		StudentID:    submission.StudentID,
		ActorID:      actorID,
	})

	s.logger.Info().Uint("submission_id", submission.ID).Uint("task_id", submission.TaskID).Msg("submission reset")

	return nil
}
