package usecase

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	projectrepo "mutualtasks-backend/internal/project/repository"
	"mutualtasks-backend/internal/task/domain"
	"mutualtasks-backend/internal/task/recurrence"
	"mutualtasks-backend/internal/task/repository"

	"github.com/google/uuid"
)

// taskUsecase implements TaskUsecase. All collaborators are injected through
// the constructor so the lifecycle logic can be tested against in-memory
// fakes.
type taskUsecase struct {
	taskRepo       repository.TaskRepository
	statusRepo     repository.StatusRepository
	completionRepo repository.CompletionRepository
	eventRepo      repository.EventRepository
	statsRepo      repository.StatsRepository
	projectRepo    projectrepo.ProjectRepository
	now            func() time.Time
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(
	taskRepo repository.TaskRepository,
	statusRepo repository.StatusRepository,
	completionRepo repository.CompletionRepository,
	eventRepo repository.EventRepository,
	statsRepo repository.StatsRepository,
	projectRepo projectrepo.ProjectRepository,
) TaskUsecase {
	return &taskUsecase{
		taskRepo:       taskRepo,
		statusRepo:     statusRepo,
		completionRepo: completionRepo,
		eventRepo:      eventRepo,
		statsRepo:      statsRepo,
		projectRepo:    projectRepo,
		now:            time.Now,
	}
}

func (u *taskUsecase) CreateTask(creatorID string, req CreateTaskRequest) (*CreateTaskResult, error) {
	if req.Title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	member, err := u.projectRepo.IsParticipant(req.ProjectID, creatorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, &domain.ValidationError{Field: "project_id", Reason: "creator is not a project participant"}
	}

	participants, err := u.projectRepo.GetParticipatingUserIDs(req.ProjectID)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, &domain.ValidationError{Field: "project_id", Reason: "project has no participants"}
	}

	dueDate := req.DueDate
	if dueDate.IsZero() {
		dueDate = u.now()
	}

	var tasks []*domain.Task
	switch req.Kind {
	case domain.TaskKindOneOff:
		tasks = []*domain.Task{domain.NewOneOffTask(req.ProjectID, creatorID, req.Title, req.Description, dueDate)}
	case domain.TaskKindHabit:
		if req.Recurrence == nil {
			return nil, &domain.ValidationError{Field: "recurrence", Reason: "required for habit tasks"}
		}
		tasks, err = u.expandSeries(creatorID, req, dueDate)
		if err != nil {
			return nil, err
		}
	default:
		return nil, &domain.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", req.Kind)}
	}

	result, err := u.persistBatch(tasks, participants)
	if err != nil {
		return nil, err
	}

	u.appendEvent(&domain.TaskEvent{
		Type:      domain.EventTaskCreated,
		TaskID:    tasks[0].ID,
		ProjectID: req.ProjectID,
		ActorID:   creatorID,
		Payload:   marshalPayload(map[string]interface{}{"count": len(tasks), "series_id": tasks[0].SeriesID}),
	})

	return result, nil
}

// expandSeries turns a habit request into dated instances sharing a series ID.
// RecurrenceTotal is only set when the series length is count-bounded.
func (u *taskUsecase) expandSeries(creatorID string, req CreateTaskRequest, start time.Time) ([]*domain.Task, error) {
	var custom *recurrence.CustomSpec
	if req.Recurrence.Pattern == domain.RecurrenceCustom {
		custom = req.Recurrence.Custom
	}

	dates := recurrence.Expand(start, req.Recurrence.Pattern, custom)
	if len(dates) == 0 {
		return nil, &domain.ValidationError{Field: "recurrence", Reason: "produces no occurrences"}
	}

	total := 0
	if custom != nil && custom.EndType == recurrence.EndByCount {
		total = len(dates)
	}

	seriesID := uuid.New().String()
	tasks := make([]*domain.Task, 0, len(dates))
	for i, date := range dates {
		tasks = append(tasks, domain.NewHabitInstance(
			req.ProjectID, creatorID, seriesID, req.Recurrence.Pattern,
			req.Title, req.Description, date, i+1, total))
	}
	return tasks, nil
}

// persistBatch creates tasks and their status rows. Any failure deletes
// every row the batch created before surfacing a single aggregate error, so
// a caller never observes a half-created series or a task without statuses.
func (u *taskUsecase) persistBatch(tasks []*domain.Task, participants []string) (*CreateTaskResult, error) {
	created, err := u.taskRepo.CreateBatch(tasks)
	if err != nil {
		u.rollbackTasks(tasks[:created], nil)
		return nil, &domain.BatchError{Created: created, Err: err}
	}

	var allStatuses []*domain.ParticipantStatus
	for ti, task := range tasks {
		statuses := make([]*domain.ParticipantStatus, 0, len(participants))
		for _, userID := range participants {
			statuses = append(statuses, domain.NewParticipantStatus(task.ID, userID, task.DueDate))
		}
		n, err := u.statusRepo.CreateBatch(statuses)
		if err != nil {
			u.rollbackTasks(tasks, tasks[:ti+1])
			return nil, &domain.BatchError{Created: len(allStatuses) + n, Err: err}
		}
		allStatuses = append(allStatuses, statuses...)
	}

	return &CreateTaskResult{Tasks: tasks, Statuses: allStatuses}, nil
}

// rollbackTasks deletes created tasks and, for withStatuses, their status
// rows. Rollback failures are logged: there is nothing further to unwind.
func (u *taskUsecase) rollbackTasks(tasks []*domain.Task, withStatuses []*domain.Task) {
	for _, task := range withStatuses {
		if err := u.statusRepo.DeleteByTask(task.ID); err != nil {
			log.Printf("[TaskUsecase] rollback: failed to delete statuses of task %s: %v", task.ID, err)
		}
	}
	for _, task := range tasks {
		if err := u.taskRepo.Delete(task.ID); err != nil {
			log.Printf("[TaskUsecase] rollback: failed to delete task %s: %v", task.ID, err)
		}
	}
}

func (u *taskUsecase) GetTask(userID, taskID string) (*TaskView, error) {
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
		member, err := u.projectRepo.IsParticipant(task.ProjectID, userID)
		if err != nil {
			return nil, err
		}
		if !member && task.CreatorID != userID {
			return nil, domain.ErrTaskNotFound
		}
		log.Printf("[TaskUsecase] anomaly: user %s has no status row for task %s, falling back to membership visibility", userID, taskID)
	}

	completion, err := u.completionRepo.FindByTaskAndUser(taskID, userID)
	if err != nil {
		return nil, err
	}

	return &TaskView{Task: task, Status: status, Completion: completion}, nil
}

func (u *taskUsecase) UpdateTask(userID, taskID string, patch TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.CreatorID != userID {
		return nil, domain.ErrTaskNotFound
	}

	if patch.ConvertTo != nil {
		return u.convertToHabit(task, patch.ConvertTo)
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.DueDate != nil {
		task.DueDate = domain.StartOfDay(*patch.DueDate)
		if err := u.rebaseDueDates(task); err != nil {
			return nil, err
		}
	}

	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

// rebaseDueDates moves the effective due date of statuses that are still
// active and not recovered; a recovered participant keeps being measured
// against the original date.
func (u *taskUsecase) rebaseDueDates(task *domain.Task) error {
	statuses, err := u.statusRepo.FindByTask(task.ID)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		if s.Status != domain.StatusActive || s.Recovered() {
			continue
		}
		s.EffectiveDueDate = task.DueDate
		if err := u.statusRepo.Update(s); err != nil {
			return err
		}
	}
	return nil
}

// convertToHabit turns a one-off task into the first instance of a habit
// series and inserts successor occurrences. If successor insertion fails,
// the original task's pre-conversion fields are restored.
func (u *taskUsecase) convertToHabit(task *domain.Task, rec *RecurrenceRequest) (*domain.Task, error) {
	if task.Kind != domain.TaskKindOneOff {
		return nil, &domain.ValidationError{Field: "convert_to", Reason: "task is already a habit"}
	}

	var custom *recurrence.CustomSpec
	if rec.Pattern == domain.RecurrenceCustom {
		custom = rec.Custom
	}
	dates := recurrence.Expand(task.DueDate, rec.Pattern, custom)
	if len(dates) < 2 {
		return nil, &domain.ValidationError{Field: "convert_to", Reason: "produces no successor occurrences"}
	}

	total := 0
	if custom != nil && custom.EndType == recurrence.EndByCount {
		total = len(dates)
	}

	original := *task
	task.Kind = domain.TaskKindHabit
	task.RecurrencePattern = rec.Pattern
	task.SeriesID = uuid.New().String()
	task.RecurrenceIndex = 1
	task.RecurrenceTotal = total
	if err := u.taskRepo.Update(task); err != nil {
		return nil, err
	}

	successors := make([]*domain.Task, 0, len(dates)-1)
	for i, date := range dates[1:] {
		successors = append(successors, domain.NewHabitInstance(
			task.ProjectID, task.CreatorID, task.SeriesID, rec.Pattern,
			task.Title, task.Description, date, i+2, total))
	}

	participants, err := u.projectRepo.GetParticipatingUserIDs(task.ProjectID)
	if err == nil {
		_, err = u.persistBatch(successors, participants)
	}
	if err != nil {
		// Restore the pre-conversion task; successor rows are already
		// rolled back by persistBatch.
		*task = original
		if restoreErr := u.taskRepo.Update(task); restoreErr != nil {
			log.Printf("[TaskUsecase] conversion rollback: failed to restore task %s: %v", task.ID, restoreErr)
		}
		return nil, err
	}

	return task, nil
}

func (u *taskUsecase) DeleteTask(userID, taskID string) error {
	task, err := u.taskRepo.FindByID(taskID)
	if err != nil {
		return err
	}
	if task == nil || task.CreatorID != userID {
		return domain.ErrTaskNotFound
	}
	return u.deleteOne(userID, task)
}

func (u *taskUsecase) DeleteSeries(userID, seriesID string) error {
	tasks, err := u.taskRepo.FindBySeriesID(seriesID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 || tasks[0].CreatorID != userID {
		return domain.ErrTaskNotFound
	}
	for _, task := range tasks {
		if err := u.deleteOne(userID, task); err != nil {
			return err
		}
	}
	return nil
}

// deleteOne removes a task together with its statuses and completion
// records. Statuses and records go first; if the task row itself fails to
// delete, both are recreated so no task is ever left without them.
func (u *taskUsecase) deleteOne(actorID string, task *domain.Task) error {
	statuses, err := u.statusRepo.FindByTask(task.ID)
	if err != nil {
		return err
	}
	records, err := u.completionRepo.FindByTask(task.ID)
	if err != nil {
		return err
	}

	if err := u.statusRepo.DeleteByTask(task.ID); err != nil {
		return err
	}
	if err := u.completionRepo.DeleteByTask(task.ID); err != nil {
		return err
	}
	if err := u.taskRepo.Delete(task.ID); err != nil {
		if _, restoreErr := u.statusRepo.CreateBatch(statuses); restoreErr != nil {
			log.Printf("[TaskUsecase] delete rollback: failed to restore statuses of task %s: %v", task.ID, restoreErr)
		}
		for _, record := range records {
			if restoreErr := u.completionRepo.Create(record); restoreErr != nil {
				log.Printf("[TaskUsecase] delete rollback: failed to restore completion record %s: %v", record.ID, restoreErr)
			}
		}
		return err
	}

	u.appendEvent(&domain.TaskEvent{
		Type:      domain.EventTaskDeleted,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		ActorID:   actorID,
	})
	return nil
}

func (u *taskUsecase) Stats(userID string) (*domain.UserStats, error) {
	stats, err := u.statsRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return u.recomputeStats(userID)
	}
	return stats, nil
}

// appendEvent writes to the outbox. Event persistence is a secondary effect:
// failure is logged and never propagated to the primary operation.
func (u *taskUsecase) appendEvent(event *domain.TaskEvent) {
	if err := u.eventRepo.Append(event); err != nil {
		log.Printf("[TaskUsecase] failed to append %s event for task %s: %v", event.Type, event.TaskID, err)
	}
}

func marshalPayload(v map[string]interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
