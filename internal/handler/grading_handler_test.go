package handler_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aulaforge/aulaforge-api/internal/dto"
	"github.com/aulaforge/aulaforge-api/internal/models"
	"github.com/aulaforge/aulaforge-api/pkg/ai"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Name() string { return ai.ProviderGemini }

func (f *fakeProvider) Call(_ context.Context, _, _ string, _ ai.CallOptions) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func seedFileSubmission(t *testing.T, db *gorm.DB, task models.Task, student models.Student) models.Submission {
	t.Helper()

	submission := models.Submission{
		TaskID:    task.ID,
		StudentID: student.ID,
		FileURL:   "https://files.example.com/essay.pdf",
		Status:    models.SubmissionStatusSubmitted,
	}
	require.NoError(t, db.Create(&submission).Error)
	return submission
}

func TestGradeFileSubmissionWithRubric(t *testing.T) {
	app, db := setupApp(t, nil)
	student := seedStudent(t, db)
	task := seedFileTask(t, db)
	submission := seedFileSubmission(t, db, task, student)

	var items []models.RubricItem
	require.NoError(t, db.Where("task_id = ?", task.ID).Order("position").Find(&items).Error)

	payload := dto.GradeSubmissionRequest{
		RubricScores: []dto.RubricScoreInput{
			{RubricItemID: items[0].ID, Score: 7, Feedback: "Solid outline"},
		},
		GeneralFeedback: "Keep refining your sources",
	}

	url := "/api/v1/submissions/" + strconv.FormatUint(uint64(submission.ID), 10) + "/grade"
	resp, err := app.Test(jsonRequest(t, "POST", url, payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)

	// 7 on the first item plus the untouched full-credit 5 on the second.
	require.NotNil(t, body.Data.Grade)
	require.Equal(t, 12.0, *body.Data.Grade)
	require.Len(t, body.Data.RubricScores, 2)
	require.NotNil(t, body.Data.GradedBy)
	require.Equal(t, uint(1), *body.Data.GradedBy)
}

func TestGradeRejectsUnknownRubricItemID(t *testing.T) {
	app, db := setupApp(t, nil)
	student := seedStudent(t, db)
	task := seedFileTask(t, db)
	submission := seedFileSubmission(t, db, task, student)

	payload := dto.GradeSubmissionRequest{
		RubricScores: []dto.RubricScoreInput{{RubricItemID: 9999, Score: 1}},
	}

	url := "/api/v1/submissions/" + strconv.FormatUint(uint64(submission.ID), 10) + "/grade"
	resp, err := app.Test(jsonRequest(t, "POST", url, payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSuggestGradesMergesSuggestion(t *testing.T) {
	provider := &fakeProvider{}
	app, db := setupApp(t, provider)
	student := seedStudent(t, db)
	task := seedFileTask(t, db)
	submission := seedFileSubmission(t, db, task, student)

	var items []models.RubricItem
	require.NoError(t, db.Where("task_id = ?", task.ID).Order("position").Find(&items).Error)

	provider.response = fmt.Sprintf(`{
		"suggestions": [
			{"rubricItemId": %d, "score": 8, "feedback": "Clear structure"},
			{"rubricItemId": %d, "score": 4, "feedback": "Cite primary sources"}
		],
		"generalFeedback": "Strong draft"
	}`, items[0].ID, items[1].ID)

	url := "/api/v1/submissions/" + strconv.FormatUint(uint64(submission.ID), 10) + "/suggestions"
	resp, err := app.Test(jsonRequest(t, "POST", url, dto.GradeSuggestionRequest{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.GradeSuggestionResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, 12.0, body.Data.Total)
	require.Equal(t, 15.0, body.Data.Max)
	require.Equal(t, "Strong draft", body.Data.GeneralFeedback)
	require.Len(t, body.Data.Scores, 2)
	require.Equal(t, "Clear structure", body.Data.Scores[0].Feedback)
}

func TestSuggestGradesProviderFailureIsBadGateway(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("quota exceeded")}
	app, db := setupApp(t, provider)
	student := seedStudent(t, db)
	task := seedFileTask(t, db)
	submission := seedFileSubmission(t, db, task, student)

	url := "/api/v1/submissions/" + strconv.FormatUint(uint64(submission.ID), 10) + "/suggestions"
	resp, err := app.Test(jsonRequest(t, "POST", url, dto.GradeSuggestionRequest{}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestStudentSummaryEndpoint(t *testing.T) {
	app, db := setupApp(t, nil)
	student := seedStudent(t, db)
	task := seedQuizTask(t, db)

	grade := 5.2
	submission := models.Submission{
		TaskID:    task.ID,
		StudentID: student.ID,
		Answers:   datatypes.JSON(`{"q1":"B"}`),
		Status:    models.SubmissionStatusGraded,
		Grade:     &grade,
	}
	require.NoError(t, db.Create(&submission).Error)

	url := "/api/v1/students/" + strconv.FormatUint(uint64(student.ID), 10) + "/summary"
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.StudentSummaryResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, 1, body.Data.TotalTasks)
	require.Equal(t, 1, body.Data.Submitted)
	require.Equal(t, 1, body.Data.Graded)
	require.NotNil(t, body.Data.AverageGrade)
	require.Equal(t, 5.2, *body.Data.AverageGrade)
}
