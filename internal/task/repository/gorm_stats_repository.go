package repository

import (
	"errors"
	"time"

	"mutualtasks-backend/internal/task/domain"

	"gorm.io/gorm"
)

// gormStatsRepository implements StatsRepository using GORM
type gormStatsRepository struct {
	db *gorm.DB
}

// NewGormStatsRepository creates a new GORM-based StatsRepository
func NewGormStatsRepository(db *gorm.DB) StatsRepository {
	return &gormStatsRepository{db: db}
}

func (r *gormStatsRepository) Upsert(stats *domain.UserStats) error {
	stats.UpdatedAt = time.Now()
	return r.db.Save(stats).Error
}

func (r *gormStatsRepository) FindByUser(userID string) (*domain.UserStats, error) {
	var stats domain.UserStats
	err := r.db.Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}
