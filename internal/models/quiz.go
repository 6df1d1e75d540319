package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// QuestionType discriminates the quiz question variants. The scoring switch
// over this type is exhaustive, so adding a variant is a compile-time-visible
// change.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeRating         QuestionType = "RATING"
	QuestionTypeText           QuestionType = "TEXT"
)

// Question is one entry of a quiz. CorrectAnswer is only meaningful for
// multiple-choice questions; Options carries the choices shown to students.
type Question struct {
	ID            string       `json:"id"`
	Prompt        string       `json:"prompt"`
	Type          QuestionType `json:"type"`
	Points        float64      `json:"points"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Options       []string     `json:"options,omitempty"`
}

// UnmarshalJSON applies the default of one point when the field is absent.
func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	aux := struct {
		Points *float64 `json:"points"`
		*alias
	}{alias: (*alias)(q)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.Points == nil {
		q.Points = 1
	} else {
		q.Points = *aux.Points
	}

	return nil
}

// QuizSpec is the ordered question list of a quiz task plus the flag that
// selects whether the automatic or the manually entered score is
// authoritative.
type QuizSpec struct {
	Questions     []Question `json:"questions"`
	GradingMethod string     `json:"gradingMethod"`
}

// ParseQuizSpec decodes the stored quiz definition of a task.
func ParseQuizSpec(raw datatypes.JSON) (QuizSpec, error) {
	if len(raw) == 0 {
		return QuizSpec{}, fmt.Errorf("task has no quiz spec")
	}

	var spec QuizSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return QuizSpec{}, fmt.Errorf("parse quiz spec: %w", err)
	}

	if spec.GradingMethod == "" {
		spec.GradingMethod = GradingMethodAuto
	}

	return spec, nil
}
