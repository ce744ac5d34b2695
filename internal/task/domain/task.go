package domain

import "time"

// TaskKind distinguishes one-off tasks from instances of a recurring series
type TaskKind string

const (
	TaskKindOneOff TaskKind = "one_off"
	TaskKindHabit  TaskKind = "habit"
)

// RecurrencePattern describes how a habit series repeats
type RecurrencePattern string

const (
	RecurrenceDaily  RecurrencePattern = "daily"
	RecurrenceWeekly RecurrencePattern = "weekly"
	RecurrenceCustom RecurrencePattern = "custom"
)

// Status is shared by tasks (aggregate level) and participant statuses
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Reward constants. The difficulty rating a participant supplies is recorded
// but never scales the reward.
const (
	BaseReward      = 200
	RecoveredReward = 50
)

// Task is one occurrence of work shared by all participants of a project.
// Habit instances generated together share a SeriesID.
type Task struct {
	ID                string            `json:"id" gorm:"primaryKey"`
	ProjectID         string            `json:"project_id" gorm:"index;not null"`
	CreatorID         string            `json:"creator_id" gorm:"index;not null"`
	SeriesID          string            `json:"series_id,omitempty" gorm:"index"`
	Kind              TaskKind          `json:"kind" gorm:"not null"`
	RecurrencePattern RecurrencePattern `json:"recurrence_pattern,omitempty"`
	Title             string            `json:"title" gorm:"not null"`
	Description       string            `json:"description,omitempty"`
	DueDate           time.Time         `json:"due_date"`
	RecurrenceIndex   int               `json:"recurrence_index,omitempty"`
	RecurrenceTotal   int               `json:"recurrence_total,omitempty"`
	TaskLevelStatus   Status            `json:"task_level_status" gorm:"default:active"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// NewOneOffTask builds a non-recurring task. One-off tasks never carry a
// recurrence pattern or series position.
func NewOneOffTask(projectID, creatorID, title, description string, dueDate time.Time) *Task {
	return &Task{
		ProjectID:       projectID,
		CreatorID:       creatorID,
		Kind:            TaskKindOneOff,
		Title:           title,
		Description:     description,
		DueDate:         StartOfDay(dueDate),
		TaskLevelStatus: StatusActive,
	}
}

// NewHabitInstance builds one dated instance of a recurring series.
// index is 1-based; total is zero for series bounded by span rather than count.
func NewHabitInstance(projectID, creatorID, seriesID string, pattern RecurrencePattern, title, description string, dueDate time.Time, index, total int) *Task {
	return &Task{
		ProjectID:         projectID,
		CreatorID:         creatorID,
		SeriesID:          seriesID,
		Kind:              TaskKindHabit,
		RecurrencePattern: pattern,
		Title:             title,
		Description:       description,
		DueDate:           StartOfDay(dueDate),
		RecurrenceIndex:   index,
		RecurrenceTotal:   total,
		TaskLevelStatus:   StatusActive,
	}
}

// Valid reports whether the task satisfies the one-off/habit invariant:
// a one-off never carries recurrence fields, a habit always does.
func (t *Task) Valid() bool {
	switch t.Kind {
	case TaskKindOneOff:
		return t.RecurrencePattern == "" && t.RecurrenceIndex == 0 && t.SeriesID == ""
	case TaskKindHabit:
		return t.RecurrencePattern != "" && t.RecurrenceIndex >= 1
	}
	return false
}

// AggregateStatus derives the task-level status from the full set of
// participant statuses: completed only when every participant completed,
// archived only when every participant archived, otherwise active.
func AggregateStatus(statuses []*ParticipantStatus) Status {
	if len(statuses) == 0 {
		return StatusActive
	}
	allCompleted, allArchived := true, true
	for _, s := range statuses {
		if s.Status != StatusCompleted {
			allCompleted = false
		}
		if s.Status != StatusArchived {
			allArchived = false
		}
	}
	if allCompleted {
		return StatusCompleted
	}
	if allArchived {
		return StatusArchived
	}
	return StatusActive
}

// StartOfDay normalizes a timestamp to midnight of its calendar day.
// Due-date comparisons in the engine are date-based, so a task due
// "today" stays on time for the whole day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDayOrBefore reports whether day a falls on or before day b,
// ignoring time of day.
func SameDayOrBefore(a, b time.Time) bool {
	return !StartOfDay(a).After(StartOfDay(b))
}
