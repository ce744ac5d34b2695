package domain

import (
	"testing"
	"time"
)

func TestOneOffFactoryInvariant(t *testing.T) {
	task := NewOneOffTask("p1", "u1", "buy groceries", "", time.Date(2025, 3, 10, 16, 45, 0, 0, time.UTC))

	if !task.Valid() {
		t.Fatal("one-off task from factory should be valid")
	}
	if task.RecurrencePattern != "" || task.RecurrenceIndex != 0 || task.SeriesID != "" {
		t.Errorf("one-off task carries recurrence fields: %+v", task)
	}
	if task.DueDate.Hour() != 0 {
		t.Errorf("due date not normalized to start of day: %v", task.DueDate)
	}
}

func TestHabitFactoryInvariant(t *testing.T) {
	task := NewHabitInstance("p1", "u1", "s1", RecurrenceDaily, "run", "", time.Now(), 3, 10)

	if !task.Valid() {
		t.Fatal("habit instance from factory should be valid")
	}
	if task.RecurrenceIndex != 3 || task.RecurrenceTotal != 10 {
		t.Errorf("series position = (%d, %d), want (3, 10)", task.RecurrenceIndex, task.RecurrenceTotal)
	}
}

func TestValidRejectsMixedShapes(t *testing.T) {
	cases := []struct {
		name string
		task Task
	}{
		{"one-off with pattern", Task{Kind: TaskKindOneOff, RecurrencePattern: RecurrenceDaily}},
		{"one-off with index", Task{Kind: TaskKindOneOff, RecurrenceIndex: 1}},
		{"habit without pattern", Task{Kind: TaskKindHabit, RecurrenceIndex: 1}},
		{"habit without index", Task{Kind: TaskKindHabit, RecurrencePattern: RecurrenceWeekly}},
		{"unknown kind", Task{Kind: TaskKind("recurring")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.task.Valid() {
				t.Error("task should be invalid")
			}
		})
	}
}

func TestAggregateStatus(t *testing.T) {
	st := func(s Status) *ParticipantStatus { return &ParticipantStatus{Status: s} }

	cases := []struct {
		name     string
		statuses []*ParticipantStatus
		want     Status
	}{
		{"no statuses", nil, StatusActive},
		{"all completed", []*ParticipantStatus{st(StatusCompleted), st(StatusCompleted)}, StatusCompleted},
		{"one completed one active", []*ParticipantStatus{st(StatusCompleted), st(StatusActive)}, StatusActive},
		{"all archived", []*ParticipantStatus{st(StatusArchived), st(StatusArchived)}, StatusArchived},
		{"archived and completed mix", []*ParticipantStatus{st(StatusArchived), st(StatusCompleted)}, StatusActive},
		{"single active", []*ParticipantStatus{st(StatusActive)}, StatusActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AggregateStatus(tc.statuses); got != tc.want {
				t.Errorf("AggregateStatus = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSameDayOrBeforeIsDateOnly(t *testing.T) {
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// Completing at 23:59 on the due day is still on time.
	lateEvening := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)
	if !SameDayOrBefore(lateEvening, due) {
		t.Error("end of due day should still count as on or before the due date")
	}

	nextMorning := time.Date(2025, 3, 11, 0, 0, 1, 0, time.UTC)
	if SameDayOrBefore(nextMorning, due) {
		t.Error("the morning after the due day should be late")
	}
}
