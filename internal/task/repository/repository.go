package repository

import (
	"time"

	"mutualtasks-backend/internal/task/domain"
)

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	// Create creates a single task, minting an ID when absent
	Create(task *domain.Task) error

	// CreateBatch creates tasks one at a time and returns how many were
	// created before the first failure, so the caller can roll them back
	CreateBatch(tasks []*domain.Task) (int, error)

	// FindByID finds a task by ID; returns (nil, nil) when absent
	FindByID(id string) (*domain.Task, error)

	// FindBySeriesID finds all instances of a habit series, ordered by
	// recurrence index
	FindBySeriesID(seriesID string) ([]*domain.Task, error)

	// FindByProjectID finds all tasks of a project
	FindByProjectID(projectID string) ([]*domain.Task, error)

	// Update saves an existing task
	Update(task *domain.Task) error

	// Delete deletes a task by ID
	Delete(id string) error
}

// StatusRepository defines the interface for participant status persistence
type StatusRepository interface {
	Create(status *domain.ParticipantStatus) error

	// CreateBatch mirrors TaskRepository.CreateBatch for status rows
	CreateBatch(statuses []*domain.ParticipantStatus) (int, error)

	// FindByTaskAndUser returns (nil, nil) when no row exists
	FindByTaskAndUser(taskID, userID string) (*domain.ParticipantStatus, error)

	FindByTask(taskID string) ([]*domain.ParticipantStatus, error)
	FindByUser(userID string) ([]*domain.ParticipantStatus, error)

	// FindOverdueActive finds active, non-recovered statuses whose effective
	// due date is strictly before the given day; used by the archive sweep
	FindOverdueActive(before time.Time) ([]*domain.ParticipantStatus, error)

	Update(status *domain.ParticipantStatus) error

	// DeleteByTask removes every status row of a task
	DeleteByTask(taskID string) error
}

// CompletionRepository defines the interface for completion record persistence
type CompletionRepository interface {
	Create(record *domain.CompletionRecord) error

	// FindByTaskAndUser returns the authoritative record for a (task, user)
	// pair, or (nil, nil) when the participant has not completed the task
	FindByTaskAndUser(taskID, userID string) (*domain.CompletionRecord, error)

	FindByTask(taskID string) ([]*domain.CompletionRecord, error)
	FindByUser(userID string) ([]*domain.CompletionRecord, error)
	Delete(id string) error
	DeleteByTask(taskID string) error
}

// EventRepository defines the interface for the lifecycle event outbox
type EventRepository interface {
	Append(event *domain.TaskEvent) error
	FindUndispatched(limit int) ([]*domain.TaskEvent, error)
	MarkDispatched(id string) error
}

// StatsRepository defines the interface for the derived per-user aggregate
type StatsRepository interface {
	Upsert(stats *domain.UserStats) error
	FindByUser(userID string) (*domain.UserStats, error)
}
