package usecase

import (
	"log"
	"time"

	"mutualtasks-backend/internal/task/domain"
)

// RecoverTask restores an archived task to active for the caller. The
// participant keeps being measured against the original effective due date,
// which is what drives the reduced, fixed reward on eventual completion.
func (u *taskUsecase) RecoverTask(userID, taskID string) (*RecoveryResult, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return &RecoveryResult{Success: false}, domain.ErrCannotRecover
	}

	status, err := u.statusRepo.FindByTaskAndUser(taskID, userID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return &RecoveryResult{Success: false}, domain.ErrCannotRecover
	}

	eligible := task.TaskLevelStatus == domain.StatusArchived ||
		status.Status == domain.StatusArchived ||
		status.ArchivedAt != nil
	if !eligible || status.Status == domain.StatusCompleted {
		return &RecoveryResult{Success: false}, domain.ErrCannotRecover
	}

	now := u.now()
	prev := *status
	status.Status = domain.StatusActive
	status.RecoveredAt = &now
	status.ArchivedAt = nil
	status.RingColor = domain.RingYellow
	if err := u.statusRepo.Update(status); err != nil {
		return nil, err
	}

	if task.TaskLevelStatus == domain.StatusArchived {
		task.TaskLevelStatus = domain.StatusActive
		if err := u.taskRepo.Update(task); err != nil {
			if restoreErr := u.statusRepo.Update(&prev); restoreErr != nil {
				log.Printf("[TaskUsecase] recovery rollback: failed to restore status of task %s: %v", taskID, restoreErr)
			}
			return nil, err
		}
	}

	u.appendEvent(&domain.TaskEvent{
		Type:      domain.EventTaskRecovered,
		TaskID:    taskID,
		ProjectID: task.ProjectID,
		ActorID:   userID,
	})

	return &RecoveryResult{Success: true, Task: task, Status: status}, nil
}

// ArchiveTask archives the caller's own active status. When every
// participant has archived, the task itself is archived.
func (u *taskUsecase) ArchiveTask(userID, taskID string) error {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return domain.ErrTaskNotFound
	}

	status, err := u.statusRepo.FindByTaskAndUser(taskID, userID)
	if err != nil {
		return err
	}
	if status == nil || status.Status != domain.StatusActive {
		return domain.ErrTaskNotFound
	}

	if err := u.archiveStatus(task, status, userID); err != nil {
		return err
	}
	return nil
}

// ArchiveOverdue archives every active, non-recovered status whose effective
// due date lies strictly before the given day. Returns how many statuses
// were archived; individual failures are logged and skipped so one bad row
// does not stall the sweep.
func (u *taskUsecase) ArchiveOverdue(before time.Time) (int, error) {
	statuses, err := u.statusRepo.FindOverdueActive(before)
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, status := range statuses {
		task, err := u.taskRepo.FindByID(status.TaskID)
		if err != nil || task == nil {
			log.Printf("[TaskUsecase] sweep: task %s missing for status of user %s: %v", status.TaskID, status.UserID, err)
			continue
		}
		if err := u.archiveStatus(task, status, status.UserID); err != nil {
			log.Printf("[TaskUsecase] sweep: failed to archive task %s for user %s: %v", status.TaskID, status.UserID, err)
			continue
		}
		archived++
	}
	return archived, nil
}

// archiveStatus performs the participant-level transition and recomputes the
// task aggregate. Archiving clears RecoveredAt so the two markers are never
// both set.
func (u *taskUsecase) archiveStatus(task *domain.Task, status *domain.ParticipantStatus, actorID string) error {
	now := u.now()
	status.Status = domain.StatusArchived
	status.ArchivedAt = &now
	status.RecoveredAt = nil
	if err := u.statusRepo.Update(status); err != nil {
		return err
	}

	statuses, err := u.statusRepo.FindByTask(task.ID)
	if err != nil {
		return err
	}
	if domain.AggregateStatus(statuses) == domain.StatusArchived && task.TaskLevelStatus != domain.StatusArchived {
		task.TaskLevelStatus = domain.StatusArchived
		if err := u.taskRepo.Update(task); err != nil {
			return err
		}
	}

	u.appendEvent(&domain.TaskEvent{
		Type:      domain.EventTaskArchived,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		ActorID:   actorID,
	})
	return nil
}
