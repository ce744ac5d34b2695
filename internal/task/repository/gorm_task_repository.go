package repository

import (
	"errors"
	"time"

	"mutualtasks-backend/internal/task/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	return r.db.Create(task).Error
}

func (r *gormTaskRepository) CreateBatch(tasks []*domain.Task) (int, error) {
	for i, task := range tasks {
		if err := r.Create(task); err != nil {
			return i, err
		}
	}
	return len(tasks), nil
}

func (r *gormTaskRepository) FindByID(id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *gormTaskRepository) FindBySeriesID(seriesID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Where("series_id = ?", seriesID).
		Order("recurrence_index ASC").Find(&tasks).Error
	return tasks, err
}

func (r *gormTaskRepository) FindByProjectID(projectID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Where("project_id = ?", projectID).
		Order("due_date ASC, created_at ASC").Find(&tasks).Error
	return tasks, err
}

func (r *gormTaskRepository) Update(task *domain.Task) error {
	task.UpdatedAt = time.Now()
	return r.db.Save(task).Error
}

func (r *gormTaskRepository) Delete(id string) error {
	return r.db.Delete(&domain.Task{}, "id = ?", id).Error
}
