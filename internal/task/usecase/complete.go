package usecase

import (
	"log"

	"mutualtasks-backend/internal/task/domain"
)

// CompleteTask marks the caller's own status completed and computes the
// reward at the moment of completion:
//
//	recovered            -> fixed recovered reward, penalty, yellow ring
//	late (not recovered) -> half the base reward, penalty, no ring
//	on time              -> full base reward, no penalty, green ring
//
// Timing is a date-only comparison against the participant's effective due
// date. A second completion attempt observes the completed status and is
// rejected, so the reward is never granted twice.
func (u *taskUsecase) CompleteTask(userID, taskID string, difficultyRating *int) (*CompletionResult, error) {
	if difficultyRating != nil && (*difficultyRating < 1 || *difficultyRating > 5) {
		return nil, &domain.ValidationError{Field: "difficulty_rating", Reason: "must be between 1 and 5"}
	}

	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}

	status, err := u.statusRepo.FindByTaskAndUser(taskID, userID)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, domain.ErrTaskNotFound
	}

	switch status.Status {
	case domain.StatusCompleted:
		return nil, domain.ErrAlreadyCompleted
	case domain.StatusArchived:
		return nil, domain.ErrTaskArchived
	}

	now := u.now()
	isRecovered := status.Recovered()
	onTime := domain.SameDayOrBefore(now, status.EffectiveDueDate)

	var reward int
	var penalty bool
	var ring domain.RingColor
	switch {
	case isRecovered:
		reward, penalty, ring = domain.RecoveredReward, true, domain.RingYellow
	case !onTime:
		reward, penalty, ring = domain.BaseReward/2, true, domain.RingNone
	default:
		reward, penalty, ring = domain.BaseReward, false, domain.RingGreen
	}

	record := &domain.CompletionRecord{
		TaskID:           taskID,
		UserID:           userID,
		CompletedAt:      now,
		DifficultyRating: difficultyRating,
		PenaltyApplied:   penalty,
		RewardEarned:     reward,
	}
	if err := u.completionRepo.Create(record); err != nil {
		return nil, err
	}

	prev := *status
	status.Status = domain.StatusCompleted
	status.RingColor = ring
	if err := u.statusRepo.Update(status); err != nil {
		u.undoCompletion(record, nil)
		return nil, err
	}

	statuses, err := u.statusRepo.FindByTask(taskID)
	if err != nil {
		u.undoCompletion(record, &prev)
		return nil, err
	}

	taskCompleted := domain.AggregateStatus(statuses) == domain.StatusCompleted
	if taskCompleted && task.TaskLevelStatus != domain.StatusCompleted {
		task.TaskLevelStatus = domain.StatusCompleted
		if err := u.taskRepo.Update(task); err != nil {
			u.undoCompletion(record, &prev)
			return nil, err
		}
	}

	eventType := domain.EventTaskCompleted
	if taskCompleted {
		eventType = domain.EventTaskCompletedAll
	}
	u.appendEvent(&domain.TaskEvent{
		Type:      eventType,
		TaskID:    taskID,
		ProjectID: task.ProjectID,
		ActorID:   userID,
		Payload:   marshalPayload(map[string]interface{}{"reward": reward, "ring": string(ring)}),
	})

	// Derived stats are best effort: a failure here must never block or
	// roll back the completion itself.
	if _, err := u.recomputeStats(userID); err != nil {
		log.Printf("[TaskUsecase] stats recompute failed for user %s: %v", userID, err)
	}

	return &CompletionResult{
		RewardEarned:   reward,
		PenaltyApplied: penalty,
		RingColor:      ring,
		Status:         status,
		Record:         record,
		TaskCompleted:  taskCompleted,
	}, nil
}

// undoCompletion rolls back the partial effects of a failed completion so
// the operation fails atomically from the caller's perspective.
func (u *taskUsecase) undoCompletion(record *domain.CompletionRecord, prev *domain.ParticipantStatus) {
	if err := u.completionRepo.Delete(record.ID); err != nil {
		log.Printf("[TaskUsecase] completion rollback: failed to delete record %s: %v", record.ID, err)
	}
	if prev != nil {
		if err := u.statusRepo.Update(prev); err != nil {
			log.Printf("[TaskUsecase] completion rollback: failed to restore status of task %s: %v", prev.TaskID, err)
		}
	}
}
