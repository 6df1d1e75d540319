package dto

import (
	"time"

	"github.com/aulaforge/aulaforge-api/internal/models"
)

// SubmissionCreateRequest is the payload for a student's first submit. Quiz
// tasks carry the answer map; file tasks carry the uploaded file reference.
type SubmissionCreateRequest struct {
	TaskID    uint              `json:"task_id" validate:"required,gt=0"`
	StudentID uint              `json:"student_id" validate:"required,gt=0"`
	Answers   map[string]string `json:"answers"`
	FileURL   string            `json:"file_url" validate:"omitempty,url"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint                  `json:"id"`
	TaskID       uint                  `json:"task_id"`
	StudentID    uint                  `json:"student_id"`
	Answers      map[string]string     `json:"answers,omitempty"`
	FileURL      string                `json:"file_url,omitempty"`
	Status       string                `json:"status"`
	Grade        *float64              `json:"grade"`
	Feedback     string                `json:"feedback"`
	GradedBy     *uint                 `json:"graded_by,omitempty"`
	GradedAt     *time.Time            `json:"graded_at,omitempty"`
	RubricScores []RubricScoreState    `json:"rubric_scores,omitempty"`
	Task         TaskLite              `json:"task"`
	Student      StudentLite           `json:"student"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// SubmissionStatusResponse reports the lifecycle state of a (task, student)
// pair. "not_submitted" is derived from the absence of a submission row.
type SubmissionStatusResponse struct {
	TaskID       uint     `json:"task_id"`
	StudentID    uint     `json:"student_id"`
	Status       string   `json:"status"`
	SubmissionID *uint    `json:"submission_id,omitempty"`
	Grade        *float64 `json:"grade,omitempty"`
}

// TaskLite summarizes a task in submission responses.
type TaskLite struct {
	ID             uint    `json:"id"`
	Title          string  `json:"title"`
	TaskType       string  `json:"task_type"`
	SubmissionType string  `json:"submission_type"`
	GradingMethod  string  `json:"grading_method"`
	MaxScore       float64 `json:"max_score"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StudentSummaryResponse aggregates a student's grading progress.
type StudentSummaryResponse struct {
	StudentID    uint     `json:"student_id"`
	TotalTasks   int      `json:"total_tasks"`
	Submitted    int      `json:"submitted"`
	Graded       int      `json:"graded"`
	AverageGrade *float64 `json:"average_grade"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:        model.ID,
		TaskID:    model.TaskID,
		StudentID: model.StudentID,
		FileURL:   model.FileURL,
		Status:    model.Status,
		Grade:     model.Grade,
		Feedback:  model.Feedback,
		GradedBy:  model.GradedBy,
		GradedAt:  model.GradedAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	if len(model.Answers) > 0 {
		response.Answers = model.AnswerMap()
	}

	if model.Task.ID != 0 {
		response.Task = TaskLite{
			ID:             model.Task.ID,
			Title:          model.Task.Title,
			TaskType:       model.Task.TaskType,
			SubmissionType: model.Task.SubmissionType,
			GradingMethod:  model.Task.GradingMethod,
			MaxScore:       model.Task.MaxScore,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:    model.Student.ID,
			Name:  model.Student.Name,
			Email: model.Student.Email,
		}
	}

	if len(model.RubricScores) > 0 {
		itemsByID := map[uint]models.RubricItem{}
		for _, item := range model.Task.RubricItems {
			itemsByID[item.ID] = item
		}

		states := make([]RubricScoreState, 0, len(model.RubricScores))
		for _, score := range model.RubricScores {
			state := RubricScoreState{
				RubricItemID: score.RubricItemID,
				Score:        score.Score,
				Feedback:     score.Feedback,
			}
			if item, ok := itemsByID[score.RubricItemID]; ok {
				state.Criterion = item.Criterion
				state.MaxPoints = item.MaxPoints
			}
			states = append(states, state)
		}
		response.RubricScores = states
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
