package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/aulaforge/aulaforge-api/internal/models"
)

func newSummaryFixture(t *testing.T, submissions ...models.Submission) (SummaryService, *fakeSubmissionRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tasks := newFakeTaskRepo(rubricTask(), autoQuizTask(), manualQuizTask())
	repo := newFakeSubmissionRepo(submissions...)
	svc := NewSummaryService(tasks, repo, client, time.Minute, testLogger())

	return svc, repo, mr
}

func TestStudentSummaryAggregation(t *testing.T) {
	gradeA := 16.0
	gradeB := 5.2
	svc, _, _ := newSummaryFixture(t,
		models.Submission{ID: 1, TaskID: 1, StudentID: 7, Status: models.SubmissionStatusGraded, Grade: &gradeA},
		models.Submission{ID: 2, TaskID: 2, StudentID: 7, Status: models.SubmissionStatusGraded, Grade: &gradeB},
		models.Submission{ID: 3, TaskID: 3, StudentID: 7, Status: models.SubmissionStatusSubmitted},
		models.Submission{ID: 4, TaskID: 1, StudentID: 8, Status: models.SubmissionStatusSubmitted},
	)

	summary, err := svc.GetStudentSummary(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, uint(7), summary.StudentID)
	require.Equal(t, 3, summary.TotalTasks)
	require.Equal(t, 3, summary.Submitted)
	require.Equal(t, 2, summary.Graded)
	require.NotNil(t, summary.AverageGrade)
	require.InDelta(t, 10.6, *summary.AverageGrade, 0.001)
}

func TestStudentSummaryUsesCache(t *testing.T) {
	grade := 16.0
	svc, repo, mr := newSummaryFixture(t,
		models.Submission{ID: 1, TaskID: 1, StudentID: 7, Status: models.SubmissionStatusGraded, Grade: &grade},
	)

	first, err := svc.GetStudentSummary(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 1, first.Graded)
	require.True(t, mr.Exists("summary:student:7"))

	// Underlying data changes but the cached summary is still served.
	require.NoError(t, repo.Delete(context.Background(), 1))

	cached, err := svc.GetStudentSummary(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 1, cached.Graded)
}

func TestInvalidateDropsCachedSummary(t *testing.T) {
	grade := 16.0
	svc, repo, mr := newSummaryFixture(t,
		models.Submission{ID: 1, TaskID: 1, StudentID: 7, Status: models.SubmissionStatusGraded, Grade: &grade},
	)

	_, err := svc.GetStudentSummary(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, mr.Exists("summary:student:7"))

	require.NoError(t, repo.Delete(context.Background(), 1))
	svc.Invalidate(context.Background(), 7)
	require.False(t, mr.Exists("summary:student:7"))

	fresh, err := svc.GetStudentSummary(context.Background(), 7)
	require.NoError(t, err)
	require.Zero(t, fresh.Submitted)
	require.Zero(t, fresh.Graded)
	require.Nil(t, fresh.AverageGrade)
}

func TestSummaryWithoutCacheClient(t *testing.T) {
	repo := newFakeSubmissionRepo()
	svc := NewSummaryService(newFakeTaskRepo(rubricTask()), repo, nil, 0, testLogger())

	summary, err := svc.GetStudentSummary(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalTasks)
	require.Zero(t, summary.Submitted)

	svc.Invalidate(context.Background(), 7)
}
