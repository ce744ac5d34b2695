package domain

import "time"

// RingColor encodes how a participant's most recent completion or recovery
// happened: green for on time, yellow for recovered, none for late.
type RingColor string

const (
	RingNone   RingColor = "none"
	RingGreen  RingColor = "green"
	RingYellow RingColor = "yellow"
)

// ParticipantStatus is the independent state of one participant on one task.
// Identity is the (task, user) pair. RecoveredAt and ArchivedAt are never
// both set: archiving clears RecoveredAt and recovery clears ArchivedAt.
type ParticipantStatus struct {
	TaskID           string     `json:"task_id" gorm:"primaryKey"`
	UserID           string     `json:"user_id" gorm:"primaryKey"`
	Status           Status     `json:"status" gorm:"default:active"`
	RingColor        RingColor  `json:"ring_color" gorm:"default:none"`
	RecoveredAt      *time.Time `json:"recovered_at,omitempty"`
	ArchivedAt       *time.Time `json:"archived_at,omitempty"`
	EffectiveDueDate time.Time  `json:"effective_due_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewParticipantStatus builds the initial status row created alongside a task.
// The effective due date starts out equal to the task's due date and is not
// reset by recovery.
func NewParticipantStatus(taskID, userID string, dueDate time.Time) *ParticipantStatus {
	return &ParticipantStatus{
		TaskID:           taskID,
		UserID:           userID,
		Status:           StatusActive,
		RingColor:        RingNone,
		EffectiveDueDate: StartOfDay(dueDate),
	}
}

// Recovered reports whether this participant recovered the task from the
// archive and has not completed it yet.
func (s *ParticipantStatus) Recovered() bool {
	return s.RecoveredAt != nil
}
