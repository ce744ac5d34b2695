package usecase

import (
	"time"

	"mutualtasks-backend/internal/task/domain"
	"mutualtasks-backend/internal/task/recurrence"
)

// TaskUsecase is the task lifecycle and recurrence engine. Every mutating
// operation either fully succeeds or fully fails: multi-row creations roll
// back the rows that made it in before surfacing the error.
type TaskUsecase interface {
	// CreateTask creates a one-off task or expands a habit request into a
	// dated series, persisting each instance together with one participant
	// status per active project participant.
	CreateTask(creatorID string, req CreateTaskRequest) (*CreateTaskResult, error)

	// GetTask returns a task together with the caller's own status, if any
	GetTask(userID, taskID string) (*TaskView, error)

	// ListBucket projects the caller's tasks into one user-facing bucket
	ListBucket(userID string, bucket Bucket) ([]*TaskView, error)

	// ListProjectBucket is the project-wide view: bucket membership is
	// computed against the task's own aggregate fields, not any single
	// participant's status
	ListProjectBucket(projectID string, bucket Bucket) ([]*domain.Task, error)

	// CompleteTask marks the caller's own status completed, computing reward,
	// penalty and ring color at the moment of completion (see complete.go)
	CompleteTask(userID, taskID string, difficultyRating *int) (*CompletionResult, error)

	// RecoverTask restores an archived task to active for the caller at a
	// reduced future reward; the effective due date is not reset
	RecoverTask(userID, taskID string) (*RecoveryResult, error)

	// ArchiveTask archives the caller's own active status
	ArchiveTask(userID, taskID string) error

	// ArchiveOverdue archives every active, non-recovered status whose
	// effective due date lies before the given day; used by the sweep
	ArchiveOverdue(before time.Time) (int, error)

	// UpdateTask patches a task the caller created, including the
	// one-off-to-habit conversion path
	UpdateTask(userID, taskID string, patch TaskUpdateRequest) (*domain.Task, error)

	// DeleteTask deletes a task with its statuses and completion records
	DeleteTask(userID, taskID string) error

	// DeleteSeries deletes every instance of a habit series
	DeleteSeries(userID, seriesID string) error

	// Stats returns the derived aggregate for a user, recomputing it when
	// no row exists yet
	Stats(userID string) (*domain.UserStats, error)
}

// RecurrenceRequest carries the recurrence details of a habit creation or a
// one-off-to-habit conversion.
type RecurrenceRequest struct {
	Pattern domain.RecurrencePattern `json:"pattern" binding:"required"`
	Custom  *recurrence.CustomSpec   `json:"custom,omitempty"`
}

// CreateTaskRequest is the engine's creation input
type CreateTaskRequest struct {
	ProjectID   string             `json:"project_id" binding:"required"`
	Kind        domain.TaskKind    `json:"kind" binding:"required"`
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	DueDate     time.Time          `json:"due_date"`
	Recurrence  *RecurrenceRequest `json:"recurrence,omitempty"`
}

// CreateTaskResult reports every row the creation persisted
type CreateTaskResult struct {
	Tasks    []*domain.Task              `json:"tasks"`
	Statuses []*domain.ParticipantStatus `json:"statuses"`
}

// TaskUpdateRequest represents the fields that can be updated. ConvertTo
// switches a one-off task into a habit series; the original task becomes the
// first instance and successor occurrences are generated after it.
type TaskUpdateRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	ConvertTo   *RecurrenceRequest `json:"convert_to,omitempty"`
}

// CompletionResult is the outcome of one participant completing one task
type CompletionResult struct {
	RewardEarned   int                       `json:"reward_earned"`
	PenaltyApplied bool                      `json:"penalty_applied"`
	RingColor      domain.RingColor          `json:"ring_color"`
	Status         *domain.ParticipantStatus `json:"status"`
	Record         *domain.CompletionRecord  `json:"record"`
	TaskCompleted  bool                      `json:"task_completed"`
}

// RecoveryResult is the outcome of a recovery attempt. Success is false when
// the task was neither archived at the task level nor archived for the
// caller; that is a rejected operation, not a silent success.
type RecoveryResult struct {
	Success bool                      `json:"success"`
	Task    *domain.Task              `json:"task,omitempty"`
	Status  *domain.ParticipantStatus `json:"status,omitempty"`
}

// TaskView pairs a task with the viewing user's own state on it
type TaskView struct {
	Task       *domain.Task              `json:"task"`
	Status     *domain.ParticipantStatus `json:"status,omitempty"`
	Completion *domain.CompletionRecord  `json:"completion,omitempty"`
}
