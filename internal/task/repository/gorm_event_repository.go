package repository

import (
	"time"

	"mutualtasks-backend/internal/task/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormEventRepository implements EventRepository using GORM
type gormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GORM-based EventRepository
func NewGormEventRepository(db *gorm.DB) EventRepository {
	return &gormEventRepository{db: db}
}

func (r *gormEventRepository) Append(event *domain.TaskEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now()
	return r.db.Create(event).Error
}

func (r *gormEventRepository) FindUndispatched(limit int) ([]*domain.TaskEvent, error) {
	var events []*domain.TaskEvent
	err := r.db.Where("dispatched = ?", false).
		Order("created_at ASC").Limit(limit).Find(&events).Error
	return events, err
}

func (r *gormEventRepository) MarkDispatched(id string) error {
	now := time.Now()
	return r.db.Model(&domain.TaskEvent{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"dispatched":    true,
			"dispatched_at": now,
		}).Error
}
