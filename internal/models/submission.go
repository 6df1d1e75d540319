package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Submission represents a student's answer to a task: either a quiz answer
// map or an uploaded file reference. At most one submission exists per
// (task, student); "not submitted" is the absence of a row, never a status
// value stored here.
type Submission struct {
	ID           uint                     `gorm:"primaryKey" json:"id"`
	TaskID       uint                     `gorm:"not null;index:idx_task_student,unique" json:"task_id"`
	StudentID    uint                     `gorm:"not null;index:idx_task_student,unique" json:"student_id"`
	Answers      datatypes.JSON           `json:"answers"`
	FileURL      string                   `gorm:"size:512" json:"file_url"`
	Status       string                   `gorm:"size:32;not null" json:"status"`
	Grade        *float64                 `json:"grade"`
	Feedback     string                   `gorm:"type:text" json:"feedback"`
	GradedBy     *uint                    `json:"graded_by"`
	GradedAt     *time.Time               `json:"graded_at"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
	Task         Task                     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"task"`
	Student      Student                  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	RubricScores []RubricScore            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"rubric_scores"`
	History      []SubmissionGradeHistory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"history"`
}

// Stored submission statuses. "not_submitted" exists only as a derived value
// in API responses.
const (
	SubmissionStatusNotSubmitted = "not_submitted"
	SubmissionStatusSubmitted    = "submitted"
	SubmissionStatusGraded       = "graded"
)

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded && s.Grade != nil
}

// SubmissionGradeHistory records each grading action applied to a submission.
type SubmissionGradeHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	Score        float64   `gorm:"not null" json:"score"`
	Feedback     string    `gorm:"type:text" json:"feedback"`
	GradedBy     uint      `gorm:"not null" json:"graded_by"`
	GradedAt     time.Time `gorm:"not null" json:"graded_at"`
}

// AnswerMap decodes the stored answers into a question-id keyed map. Raw
// values are kept as strings; scoring interprets them per question type.
func (s Submission) AnswerMap() map[string]string {
	answers := map[string]string{}
	if len(s.Answers) == 0 {
		return answers
	}
	_ = json.Unmarshal(s.Answers, &answers)
	return answers
}
