package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aulaforge/aulaforge-api/internal/models"
)

// TaskRepository defines data operations for tasks and their rubric items.
type TaskRepository interface {
	GetByID(ctx context.Context, id uint) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository instantiates the repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Task{}).
		Preload("RubricItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (models.Task, error) {
	var task models.Task
	if err := r.baseQuery(ctx).First(&task, id).Error; err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.baseQuery(ctx).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}
