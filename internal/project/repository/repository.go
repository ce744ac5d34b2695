package repository

import "mutualtasks-backend/internal/project/domain"

// ProjectRepository defines the interface for project and membership lookup
type ProjectRepository interface {
	Create(project *domain.Project) error

	// FindByID returns (nil, nil) when the project does not exist
	FindByID(id string) (*domain.Project, error)

	// FindByUserID finds projects the user created or currently participates in
	FindByUserID(userID string) ([]*domain.Project, error)

	AddParticipant(projectID, userID string) error

	// RemoveParticipant soft-removes by setting RemovedAt
	RemoveParticipant(projectID, userID string) error

	// GetParticipatingUserIDs resolves the creator plus every non-removed
	// participant; task creation fans status rows out to exactly this set
	GetParticipatingUserIDs(projectID string) ([]string, error)

	// IsParticipant reports whether the user is the creator or a non-removed
	// participant
	IsParticipant(projectID, userID string) (bool, error)
}
