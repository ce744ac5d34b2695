package domain

import "time"

// EventType identifies a lifecycle transition recorded in the outbox.
type EventType string

const (
	EventTaskCreated      EventType = "task.created"
	EventTaskCompleted    EventType = "task.completed"
	EventTaskCompletedAll EventType = "task.completed_all"
	EventTaskRecovered    EventType = "task.recovered"
	EventTaskArchived     EventType = "task.archived"
	EventTaskDeleted      EventType = "task.deleted"
)

// TaskEvent is an outbox row. The engine appends events as a best-effort
// side effect of the primary operation; the notification dispatcher polls
// undispatched rows and marks them dispatched only after successful fan-out,
// so a failed delivery is retried on the next poll.
type TaskEvent struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Type         EventType  `json:"type" gorm:"not null"`
	TaskID       string     `json:"task_id" gorm:"index"`
	ProjectID    string     `json:"project_id" gorm:"index"`
	ActorID      string     `json:"actor_id"`
	Payload      string     `json:"payload,omitempty"`
	Dispatched   bool       `json:"dispatched" gorm:"default:false;index"`
	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
