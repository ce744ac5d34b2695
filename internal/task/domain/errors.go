package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskNotFound covers both a missing task and a task the caller may
	// not operate on; handlers surface both the same way.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAlreadyCompleted rejects a second completion attempt on the same
	// (task, user) pair so a reward is never granted twice.
	ErrAlreadyCompleted = errors.New("task already completed")

	// ErrTaskArchived rejects completing an archived task directly; it must
	// be recovered first.
	ErrTaskArchived = errors.New("task is archived and must be recovered before completion")

	// ErrCannotRecover rejects recovering a task that is neither archived at
	// the task level nor archived for this participant.
	ErrCannotRecover = errors.New("task not found or cannot be recovered")
)

// ValidationError reports malformed creation or update input. No partial
// state exists when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// BatchError reports a multi-row creation that failed partway. Rows created
// before the failure are rolled back before the error is surfaced, so the
// caller never observes a half-created series.
type BatchError struct {
	Created int
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch failed after %d rows (rolled back): %v", e.Created, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
