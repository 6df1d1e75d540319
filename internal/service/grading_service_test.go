package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/aulaforge/aulaforge-api/internal/dto"
	"github.com/aulaforge/aulaforge-api/internal/models"
)

func rubricTask() models.Task {
	return models.Task{
		ID:             1,
		Title:          "Solar system essay",
		TaskType:       models.TaskTypeProject,
		SubmissionType: models.SubmissionTypeFile,
		GradingMethod:  models.GradingMethodManual,
		MaxScore:       20,
		RubricItems: []models.RubricItem{
			{ID: 10, TaskID: 1, Criterion: "Structure", MaxPoints: 10, Position: 0},
			{ID: 11, TaskID: 1, Criterion: "Sources", MaxPoints: 5, Position: 1},
			{ID: 12, TaskID: 1, Criterion: "Originality", MaxPoints: 5, Position: 2},
		},
	}
}

func autoQuizTask() models.Task {
	return models.Task{
		ID:             2,
		Title:          "Planets quiz",
		TaskType:       models.TaskTypeProblem,
		SubmissionType: models.SubmissionTypeQuiz,
		GradingMethod:  models.GradingMethodAuto,
		MaxScore:       6,
		QuizSpec: datatypes.JSON(`{
			"gradingMethod": "AUTO",
			"questions": [
				{"id": "q1", "type": "MULTIPLE_CHOICE", "points": 2, "correctAnswer": "B"},
				{"id": "q2", "type": "RATING", "points": 4},
				{"id": "q3", "type": "TEXT"}
			]
		}`),
	}
}

func manualQuizTask() models.Task {
	task := autoQuizTask()
	task.ID = 3
	task.GradingMethod = models.GradingMethodManual
	task.QuizSpec = datatypes.JSON(`{
		"gradingMethod": "MANUAL",
		"questions": [
			{"id": "q1", "type": "TEXT", "points": 6}
		]
	}`)
	return task
}

func newGradingFixture(t *testing.T, submissions ...models.Submission) (GradingService, *fakeSubmissionRepo, *recordingPublisher, *recordingInvalidator) {
	t.Helper()

	repo := newFakeSubmissionRepo(submissions...)
	publisher := &recordingPublisher{}
	invalidator := &recordingInvalidator{}
	svc := NewGradingService(repo, validator.New(), publisher, invalidator, testLogger())

	return svc, repo, publisher, invalidator
}

func TestGradeRubricSubmission(t *testing.T) {
	submission := models.Submission{
		ID:        1,
		TaskID:    1,
		StudentID: 7,
		FileURL:   "https://files.example.com/essay.pdf",
		Status:    models.SubmissionStatusSubmitted,
		Task:      rubricTask(),
	}
	svc, repo, publisher, invalidator := newGradingFixture(t, submission)

	response, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{
		RubricScores: []dto.RubricScoreInput{
			{RubricItemID: 10, Score: 8, Feedback: "Missing conclusion"},
			{RubricItemID: 11, Score: 3},
		},
		GeneralFeedback: "Good effort overall",
	}, Grader{ID: 42})
	require.NoError(t, err)

	// Item 12 was not touched, so it keeps its full-credit default of 5.
	require.NotNil(t, response.Grade)
	require.Equal(t, 16.0, *response.Grade)
	require.Equal(t, models.SubmissionStatusGraded, response.Status)
	require.Equal(t, "Good effort overall", response.Feedback)
	require.NotNil(t, response.GradedBy)
	require.Equal(t, uint(42), *response.GradedBy)

	require.Equal(t, 1, repo.saveGradeCalls)
	require.Equal(t, []string{EventSubmissionGraded}, publisher.actions())
	require.Equal(t, []uint{7}, invalidator.students)
}

func TestGradeClampsScoresAboveMaxPoints(t *testing.T) {
	submission := models.Submission{
		ID:     1,
		TaskID: 1,
		Status: models.SubmissionStatusSubmitted,
		Task:   rubricTask(),
	}
	svc, _, _, _ := newGradingFixture(t, submission)

	response, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{
		RubricScores: []dto.RubricScoreInput{
			{RubricItemID: 10, Score: 999},
			{RubricItemID: 11, Score: 0},
			{RubricItemID: 12, Score: 0},
		},
	}, Grader{ID: 1})
	require.NoError(t, err)
	require.Equal(t, 10.0, *response.Grade)
}

func TestGradeRejectsUnknownRubricItem(t *testing.T) {
	submission := models.Submission{
		ID:     1,
		TaskID: 1,
		Status: models.SubmissionStatusSubmitted,
		Task:   rubricTask(),
	}
	svc, repo, publisher, _ := newGradingFixture(t, submission)

	_, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{
		RubricScores: []dto.RubricScoreInput{{RubricItemID: 999, Score: 1}},
	}, Grader{ID: 1})
	require.ErrorIs(t, err, ErrUnknownRubricItem)
	require.Zero(t, repo.saveGradeCalls)
	require.Empty(t, publisher.actions())
}

func TestGradeAutoQuizComputesScore(t *testing.T) {
	submission := models.Submission{
		ID:        1,
		TaskID:    2,
		StudentID: 5,
		Answers:   datatypes.JSON(`{"q1":"B","q2":"4","q3":"free text answer"}`),
		Status:    models.SubmissionStatusSubmitted,
		Task:      autoQuizTask(),
	}
	svc, _, _, _ := newGradingFixture(t, submission)

	response, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{}, Grader{ID: 1})
	require.NoError(t, err)

	// 2 for the correct choice plus 4/5 of the rating points, rounded.
	require.Equal(t, 5.2, *response.Grade)
}

func TestGradeManualQuizRequiresOverride(t *testing.T) {
	submission := models.Submission{
		ID:      1,
		TaskID:  3,
		Answers: datatypes.JSON(`{"q1":"long essay answer"}`),
		Status:  models.SubmissionStatusSubmitted,
		Task:    manualQuizTask(),
	}
	svc, _, _, _ := newGradingFixture(t, submission)

	_, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{}, Grader{ID: 1})
	require.ErrorIs(t, err, ErrQuizOverrideRequired)
}

func TestGradeManualQuizOverrideBounds(t *testing.T) {
	submission := models.Submission{
		ID:      1,
		TaskID:  3,
		Answers: datatypes.JSON(`{"q1":"long essay answer"}`),
		Status:  models.SubmissionStatusSubmitted,
		Task:    manualQuizTask(),
	}
	svc, _, _, _ := newGradingFixture(t, submission)

	tooHigh := 7.0
	_, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{QuizScoreOverride: &tooHigh}, Grader{ID: 1})
	require.ErrorIs(t, err, ErrOverrideExceedsMax)

	valid := 4.5
	response, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{QuizScoreOverride: &valid}, Grader{ID: 1})
	require.NoError(t, err)
	require.Equal(t, 4.5, *response.Grade)
}

func TestGradeStripsMarkupFromFeedback(t *testing.T) {
	submission := models.Submission{
		ID:     1,
		TaskID: 1,
		Status: models.SubmissionStatusSubmitted,
		Task:   rubricTask(),
	}
	svc, _, _, _ := newGradingFixture(t, submission)

	response, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{
		GeneralFeedback: "<b>Solid</b> work",
	}, Grader{ID: 1})
	require.NoError(t, err)
	require.Equal(t, "Solid work", response.Feedback)
}

func TestGradeUnknownSubmission(t *testing.T) {
	svc, _, _, _ := newGradingFixture(t)

	_, err := svc.Grade(context.Background(), 99, dto.GradeSubmissionRequest{}, Grader{ID: 1})
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestRegradeReplacesPreviousResult(t *testing.T) {
	previous := 12.0
	submission := models.Submission{
		ID:     1,
		TaskID: 1,
		Status: models.SubmissionStatusGraded,
		Grade:  &previous,
		Task:   rubricTask(),
		RubricScores: []models.RubricScore{
			{SubmissionID: 1, RubricItemID: 10, Score: 7},
			{SubmissionID: 1, RubricItemID: 11, Score: 2},
			{SubmissionID: 1, RubricItemID: 12, Score: 3},
		},
	}
	svc, _, _, _ := newGradingFixture(t, submission)

	response, err := svc.Grade(context.Background(), 1, dto.GradeSubmissionRequest{
		RubricScores: []dto.RubricScoreInput{{RubricItemID: 11, Score: 5}},
	}, Grader{ID: 2})
	require.NoError(t, err)

	// Saved scores seed the evaluator; only item 11 changes.
	require.Equal(t, 15.0, *response.Grade)
}
