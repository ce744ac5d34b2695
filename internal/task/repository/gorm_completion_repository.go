package repository

import (
	"errors"
	"time"

	"mutualtasks-backend/internal/task/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormCompletionRepository implements CompletionRepository using GORM
type gormCompletionRepository struct {
	db *gorm.DB
}

// NewGormCompletionRepository creates a new GORM-based CompletionRepository
func NewGormCompletionRepository(db *gorm.DB) CompletionRepository {
	return &gormCompletionRepository{db: db}
}

func (r *gormCompletionRepository) Create(record *domain.CompletionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now()
	}
	record.CreatedAt = time.Now()
	return r.db.Create(record).Error
}

func (r *gormCompletionRepository) FindByTaskAndUser(taskID, userID string) (*domain.CompletionRecord, error) {
	var record domain.CompletionRecord
	err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		Order("completed_at ASC").First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *gormCompletionRepository) FindByTask(taskID string) ([]*domain.CompletionRecord, error) {
	var records []*domain.CompletionRecord
	err := r.db.Where("task_id = ?", taskID).
		Order("completed_at ASC").Find(&records).Error
	return records, err
}

func (r *gormCompletionRepository) FindByUser(userID string) ([]*domain.CompletionRecord, error) {
	var records []*domain.CompletionRecord
	err := r.db.Where("user_id = ?", userID).
		Order("completed_at ASC").Find(&records).Error
	return records, err
}

func (r *gormCompletionRepository) Delete(id string) error {
	return r.db.Delete(&domain.CompletionRecord{}, "id = ?", id).Error
}

func (r *gormCompletionRepository) DeleteByTask(taskID string) error {
	return r.db.Delete(&domain.CompletionRecord{}, "task_id = ?", taskID).Error
}
