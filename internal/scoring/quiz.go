// Package scoring implements the deterministic evaluation core: automatic
// quiz scoring and mutable rubric grading state. Everything here is pure or
// session-local; it performs no I/O and is safe to recompute on every edit.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/aulaforge/aulaforge-api/internal/models"
)

// ratingScale is the nominal upper bound of the rating answer scale.
const ratingScale = 5

// ComputeScore returns the automatic score earned by the given answer map.
// Answers are the raw stored strings keyed by question ID; missing or empty
// entries earn nothing. The result never exceeds ComputeMaxScore for the same
// question list.
func ComputeScore(questions []models.Question, answers map[string]string) float64 {
	var total float64
	for _, question := range questions {
		total += scoreQuestion(question, answers[question.ID])
	}
	return round1(total)
}

// ComputeMaxScore returns the sum of points over all questions.
func ComputeMaxScore(questions []models.Question) float64 {
	var total float64
	for _, question := range questions {
		total += question.Points
	}
	return total
}

// QualitativeAnswers returns the answers that are never auto-graded (open
// text questions and zero-point questions) so graders can review them by hand.
func QualitativeAnswers(questions []models.Question, answers map[string]string) map[string]string {
	qualitative := map[string]string{}
	for _, question := range questions {
		if question.Type != models.QuestionTypeText && question.Points != 0 {
			continue
		}
		if answer, ok := answers[question.ID]; ok && strings.TrimSpace(answer) != "" {
			qualitative[question.ID] = answer
		}
	}
	return qualitative
}

func scoreQuestion(question models.Question, answer string) float64 {
	if answer == "" || question.Points == 0 {
		return 0
	}

	switch question.Type {
	case models.QuestionTypeMultipleChoice:
		if answer == question.CorrectAnswer {
			return question.Points
		}
		return 0
	case models.QuestionTypeRating:
		value, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
		if err != nil {
			return 0
		}
		// Out-of-range ratings are clamped rather than rejected so the
		// score <= max invariant holds for any answer map.
		if value < 0 {
			value = 0
		}
		if value > ratingScale {
			value = ratingScale
		}
		return round1(value / ratingScale * question.Points)
	case models.QuestionTypeText:
		return 0
	}

	return 0
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
