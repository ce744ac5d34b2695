package repository

import (
	"errors"
	"time"

	"mutualtasks-backend/internal/task/domain"

	"gorm.io/gorm"
)

// gormStatusRepository implements StatusRepository using GORM
type gormStatusRepository struct {
	db *gorm.DB
}

// NewGormStatusRepository creates a new GORM-based StatusRepository
func NewGormStatusRepository(db *gorm.DB) StatusRepository {
	return &gormStatusRepository{db: db}
}

func (r *gormStatusRepository) Create(status *domain.ParticipantStatus) error {
	status.CreatedAt = time.Now()
	status.UpdatedAt = time.Now()
	return r.db.Create(status).Error
}

func (r *gormStatusRepository) CreateBatch(statuses []*domain.ParticipantStatus) (int, error) {
	for i, status := range statuses {
		if err := r.Create(status); err != nil {
			return i, err
		}
	}
	return len(statuses), nil
}

func (r *gormStatusRepository) FindByTaskAndUser(taskID, userID string) (*domain.ParticipantStatus, error) {
	var status domain.ParticipantStatus
	err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

func (r *gormStatusRepository) FindByTask(taskID string) ([]*domain.ParticipantStatus, error) {
	var statuses []*domain.ParticipantStatus
	err := r.db.Where("task_id = ?", taskID).Find(&statuses).Error
	return statuses, err
}

func (r *gormStatusRepository) FindByUser(userID string) ([]*domain.ParticipantStatus, error) {
	var statuses []*domain.ParticipantStatus
	err := r.db.Where("user_id = ?", userID).Find(&statuses).Error
	return statuses, err
}

func (r *gormStatusRepository) FindOverdueActive(before time.Time) ([]*domain.ParticipantStatus, error) {
	var statuses []*domain.ParticipantStatus
	err := r.db.Where("status = ? AND recovered_at IS NULL AND effective_due_date < ?",
		domain.StatusActive, domain.StartOfDay(before)).Find(&statuses).Error
	return statuses, err
}

func (r *gormStatusRepository) Update(status *domain.ParticipantStatus) error {
	status.UpdatedAt = time.Now()
	return r.db.Save(status).Error
}

func (r *gormStatusRepository) DeleteByTask(taskID string) error {
	return r.db.Delete(&domain.ParticipantStatus{}, "task_id = ?", taskID).Error
}
