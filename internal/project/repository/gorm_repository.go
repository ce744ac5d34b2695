package repository

import (
	"errors"
	"time"

	"mutualtasks-backend/internal/project/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormProjectRepository implements ProjectRepository using GORM
type gormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GORM-based ProjectRepository
func NewGormProjectRepository(db *gorm.DB) ProjectRepository {
	return &gormProjectRepository{db: db}
}

func (r *gormProjectRepository) Create(project *domain.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	return r.db.Create(project).Error
}

func (r *gormProjectRepository) FindByID(id string) (*domain.Project, error) {
	var project domain.Project
	err := r.db.Where("id = ?", id).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *gormProjectRepository) FindByUserID(userID string) ([]*domain.Project, error) {
	var projects []*domain.Project
	err := r.db.
		Joins("LEFT JOIN project_participants ON project_participants.project_id = projects.id AND project_participants.user_id = ? AND project_participants.removed_at IS NULL", userID).
		Where("projects.creator_id = ? OR project_participants.user_id IS NOT NULL", userID).
		Distinct().Order("projects.created_at ASC").Find(&projects).Error
	return projects, err
}

func (r *gormProjectRepository) AddParticipant(projectID, userID string) error {
	// Re-adding a previously removed participant clears RemovedAt
	var existing domain.ProjectParticipant
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&existing).Error
	if err == nil {
		existing.RemovedAt = nil
		existing.UpdatedAt = time.Now()
		return r.db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	participant := &domain.ProjectParticipant{
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return r.db.Create(participant).Error
}

func (r *gormProjectRepository) RemoveParticipant(projectID, userID string) error {
	now := time.Now()
	return r.db.Model(&domain.ProjectParticipant{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Updates(map[string]interface{}{
			"removed_at": now,
			"updated_at": now,
		}).Error
}

func (r *gormProjectRepository) GetParticipatingUserIDs(projectID string) ([]string, error) {
	project, err := r.FindByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}

	var participants []*domain.ProjectParticipant
	if err := r.db.Where("project_id = ? AND removed_at IS NULL", projectID).Find(&participants).Error; err != nil {
		return nil, err
	}

	ids := []string{project.CreatorID}
	seen := map[string]bool{project.CreatorID: true}
	for _, p := range participants {
		if !seen[p.UserID] {
			ids = append(ids, p.UserID)
			seen[p.UserID] = true
		}
	}
	return ids, nil
}

func (r *gormProjectRepository) IsParticipant(projectID, userID string) (bool, error) {
	ids, err := r.GetParticipatingUserIDs(projectID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}
