package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aulaforge/aulaforge-api/internal/dto"
	"github.com/aulaforge/aulaforge-api/internal/models"
	"github.com/aulaforge/aulaforge-api/internal/observability"
	"github.com/aulaforge/aulaforge-api/internal/repository"
)

// SummaryInvalidator drops a student's cached grade summary. Grading and
// Reset both call it so the cache never survives the transition it
// summarizes.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context, studentID uint)
}

// SummaryService aggregates a student's grading progress with a short-lived
// cache in front of it.
type SummaryService interface {
	SummaryInvalidator
	GetStudentSummary(ctx context.Context, studentID uint) (dto.StudentSummaryResponse, error)
}

type summaryService struct {
	tasks       repository.TaskRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewSummaryService builds the summary aggregator. The cache client may be
// nil; summaries are then computed on every call.
func NewSummaryService(tasks repository.TaskRepository, submissions repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) SummaryService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &summaryService{
		tasks:       tasks,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "summary_service").Logger(),
	}
}

func summaryCacheKey(studentID uint) string {
	return fmt.Sprintf("summary:student:%d", studentID)
}

func (s *summaryService) GetStudentSummary(ctx context.Context, studentID uint) (dto.StudentSummaryResponse, error) {
	key := summaryCacheKey(studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var response dto.StudentSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				observability.SummaryCacheLookups().WithLabelValues("hit").Inc()
				s.logger.Debug().Uint("student_id", studentID).Msg("summary cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read summary cache")
		}
		observability.SummaryCacheLookups().WithLabelValues("miss").Inc()
	}

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return dto.StudentSummaryResponse{}, err
	}

	filter := repository.SubmissionFilter{StudentID: &studentID}
	submissions, err := s.submissions.List(ctx, filter)
	if err != nil {
		return dto.StudentSummaryResponse{}, err
	}

	response := buildSummary(studentID, tasks, submissions)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store summary cache")
			}
		}
	}

	return response, nil
}

// Invalidate drops the cached summary so the next read reflects the latest
// grading or reset action.
func (s *summaryService) Invalidate(ctx context.Context, studentID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, summaryCacheKey(studentID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", studentID).Msg("failed to invalidate summary cache")
	}
}

func buildSummary(studentID uint, tasks []models.Task, submissions []models.Submission) dto.StudentSummaryResponse {
	response := dto.StudentSummaryResponse{
		StudentID:  studentID,
		TotalTasks: len(tasks),
	}

	var gradeTotal float64
	for _, submission := range submissions {
		response.Submitted++
		if submission.IsGraded() {
			response.Graded++
			gradeTotal += *submission.Grade
		}
	}

	if response.Graded > 0 {
		average := gradeTotal / float64(response.Graded)
		response.AverageGrade = &average
	}

	return response
}
