package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/aulaforge/aulaforge-api/internal/models"
)

func TestComputeScoreMixedQuiz(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionTypeMultipleChoice, Points: 2, CorrectAnswer: "B"},
		{ID: "q2", Type: models.QuestionTypeRating, Points: 4},
	}
	answers := map[string]string{"q1": "B", "q2": "4"}

	require.Equal(t, 5.2, ComputeScore(questions, answers))
	require.Equal(t, 6.0, ComputeMaxScore(questions))
}

func TestComputeScoreMultipleChoiceStrictEquality(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionTypeMultipleChoice, Points: 3, CorrectAnswer: "B"},
	}

	require.Equal(t, 3.0, ComputeScore(questions, map[string]string{"q1": "B"}))
	require.Equal(t, 0.0, ComputeScore(questions, map[string]string{"q1": "b"}), "comparison is on the raw stored value")
	require.Equal(t, 0.0, ComputeScore(questions, map[string]string{"q1": " B"}))
	require.Equal(t, 0.0, ComputeScore(questions, map[string]string{}))
}

func TestComputeScoreRatingMonotonicAndRounded(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionTypeRating, Points: 3},
	}

	previous := -1.0
	for value := 1; value <= 5; value++ {
		score := ComputeScore(questions, map[string]string{"q1": fmt.Sprintf("%d", value)})
		require.Greater(t, score, previous, "rating score must be strictly increasing in the answer value")
		require.InDelta(t, float64(value)/5*3, score, 0.05)
		previous = score
	}

	require.Equal(t, 0.6, ComputeScore(questions, map[string]string{"q1": "1"}))
	require.Equal(t, 3.0, ComputeScore(questions, map[string]string{"q1": "5"}))
}

func TestComputeScoreRatingClampsOutOfRange(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionTypeRating, Points: 4},
	}

	require.Equal(t, 4.0, ComputeScore(questions, map[string]string{"q1": "6"}))
	require.Equal(t, 0.0, ComputeScore(questions, map[string]string{"q1": "-2"}))
	require.Equal(t, 0.0, ComputeScore(questions, map[string]string{"q1": "not a number"}))
}

func TestComputeScoreTextAndZeroPointQuestions(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionTypeText, Points: 5},
		{ID: "q2", Type: models.QuestionTypeMultipleChoice, Points: 0, CorrectAnswer: "A"},
	}
	answers := map[string]string{"q1": "a long essay", "q2": "A"}

	require.Equal(t, 0.0, ComputeScore(questions, answers))

	qualitative := QualitativeAnswers(questions, answers)
	require.Len(t, qualitative, 2)
	require.Equal(t, "a long essay", qualitative["q1"])
}

func TestComputeScoreNeverExceedsMax(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionTypeMultipleChoice, Points: 2, CorrectAnswer: "A"},
		{ID: "q2", Type: models.QuestionTypeRating, Points: 4},
		{ID: "q3", Type: models.QuestionTypeText, Points: 1},
	}

	hostile := []map[string]string{
		{"q1": "A", "q2": "9999", "q3": "essay"},
		{"q1": "A", "q2": "5", "q3": "essay", "unknown": "value"},
		{"q2": "-1"},
		{},
	}

	max := ComputeMaxScore(questions)
	for _, answers := range hostile {
		require.LessOrEqual(t, ComputeScore(questions, answers), max)
	}
}

func TestComputeScoreDeterministic(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.QuestionTypeMultipleChoice, Points: 2, CorrectAnswer: "C"},
		{ID: "q2", Type: models.QuestionTypeRating, Points: 3},
	}
	answers := map[string]string{"q1": "C", "q2": "3"}

	first := ComputeScore(questions, answers)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, ComputeScore(questions, answers))
	}
}

func TestQuestionPointsDefaultToOne(t *testing.T) {
	raw := datatypes.JSON(`{"questions":[{"id":"q1","type":"TEXT"},{"id":"q2","type":"RATING","points":2}],"gradingMethod":"MANUAL"}`)
	spec, err := models.ParseQuizSpec(raw)
	require.NoError(t, err)
	require.Equal(t, 1.0, spec.Questions[0].Points)
	require.Equal(t, 2.0, spec.Questions[1].Points)
	require.Equal(t, models.GradingMethodManual, spec.GradingMethod)
	require.Equal(t, 3.0, ComputeMaxScore(spec.Questions))
}
