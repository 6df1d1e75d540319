package models

import (
	"time"

	"gorm.io/datatypes"
)

// Task types supported by the platform.
const (
	TaskTypeProject   = "PROJECT"
	TaskTypeChallenge = "CHALLENGE"
	TaskTypeProblem   = "PROBLEM"
)

// Submission types. Quiz tasks carry an inline answer map; file tasks carry
// an uploaded document reference.
const (
	SubmissionTypeQuiz = "quiz"
	SubmissionTypeFile = "file"
)

// Grading methods for quiz tasks. AUTO computes the score from the answer
// key; MANUAL requires the teacher to enter the score.
const (
	GradingMethodAuto   = "AUTO"
	GradingMethodManual = "MANUAL"
)

// Task is a unit of work students submit against. Quiz tasks store their
// question list in QuizSpec; file tasks are graded against RubricItems.
type Task struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	TaskType       string         `gorm:"size:32;not null" json:"task_type"`
	SubmissionType string         `gorm:"size:32;not null" json:"submission_type"`
	GradingMethod  string         `gorm:"size:32;not null;default:AUTO" json:"grading_method"`
	MaxScore       float64        `json:"max_score"`
	QuizSpec       datatypes.JSON `json:"quiz_spec,omitempty"`
	DueDate        *time.Time     `json:"due_date"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	RubricItems    []RubricItem   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"rubric_items"`
}

// IsQuiz reports whether the task is answered with an inline quiz.
func (t Task) IsQuiz() bool {
	return t.SubmissionType == SubmissionTypeQuiz
}

// IsPastDue reports whether the task's due date has passed at the given
// instant. Tasks without a due date never expire.
func (t Task) IsPastDue(now time.Time) bool {
	return t.DueDate != nil && now.After(*t.DueDate)
}
