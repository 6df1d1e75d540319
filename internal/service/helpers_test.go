package service

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aulaforge/aulaforge-api/internal/models"
	"github.com/aulaforge/aulaforge-api/internal/repository"
	"github.com/aulaforge/aulaforge-api/pkg/ai"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// fakeSubmissionRepo is an in-memory SubmissionRepository for service tests.
type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[uint]models.Submission
	nextID      uint

	saveGradeCalls int
	deleteCalls    int
}

func newFakeSubmissionRepo(seed ...models.Submission) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{submissions: map[uint]models.Submission{}, nextID: 1}
	for _, submission := range seed {
		if submission.ID == 0 {
			submission.ID = repo.nextID
		}
		repo.submissions[submission.ID] = submission
		if submission.ID >= repo.nextID {
			repo.nextID = submission.ID + 1
		}
	}
	return repo
}

func (f *fakeSubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []models.Submission
	for _, submission := range f.submissions {
		if filter.StudentID != nil && submission.StudentID != *filter.StudentID {
			continue
		}
		if filter.TaskID != nil && submission.TaskID != *filter.TaskID {
			continue
		}
		result = append(result, submission)
	}
	return result, nil
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	submission, ok := f.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (f *fakeSubmissionRepo) GetByTaskAndStudent(_ context.Context, taskID, studentID uint) (models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, submission := range f.submissions {
		if submission.TaskID == taskID && submission.StudentID == studentID {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	submission.ID = f.nextID
	f.nextID++
	f.submissions[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) SaveGrade(_ context.Context, submission *models.Submission, scores []models.RubricScore, history *models.SubmissionGradeHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saveGradeCalls++
	stored := *submission
	stored.RubricScores = scores
	if history != nil {
		stored.History = append(stored.History, *history)
	}
	f.submissions[submission.ID] = stored
	return nil
}

func (f *fakeSubmissionRepo) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.submissions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.deleteCalls++
	delete(f.submissions, id)
	return nil
}

// fakeTaskRepo is an in-memory TaskRepository.
type fakeTaskRepo struct {
	tasks map[uint]models.Task
}

func newFakeTaskRepo(tasks ...models.Task) *fakeTaskRepo {
	repo := &fakeTaskRepo{tasks: map[uint]models.Task{}}
	for _, task := range tasks {
		repo.tasks[task.ID] = task
	}
	return repo
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id uint) (models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return models.Task{}, gorm.ErrRecordNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) List(_ context.Context) ([]models.Task, error) {
	var tasks []models.Task
	for _, task := range f.tasks {
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (f *fakeTaskRepo) Create(_ context.Context, task *models.Task) error {
	f.tasks[task.ID] = *task
	return nil
}

// stubModelCaller delegates provider calls to a test-supplied function and
// records the options each call carried.
type stubModelCaller struct {
	name string
	fn   func(ctx context.Context, model, prompt string) (string, error)

	mu   sync.Mutex
	opts []ai.CallOptions
}

func (s *stubModelCaller) Name() string { return s.name }

func (s *stubModelCaller) Call(ctx context.Context, model, prompt string, opts ai.CallOptions) (string, error) {
	s.mu.Lock()
	s.opts = append(s.opts, opts)
	s.mu.Unlock()
	return s.fn(ctx, model, prompt)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingPublisher) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, 0, len(r.events))
	for _, event := range r.events {
		actions = append(actions, event.Action)
	}
	return actions
}

// recordingInvalidator captures summary invalidations.
type recordingInvalidator struct {
	mu       sync.Mutex
	students []uint
}

func (r *recordingInvalidator) Invalidate(_ context.Context, studentID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students = append(r.students, studentID)
}
