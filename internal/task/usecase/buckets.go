package usecase

import (
	"log"
	"sort"
	"time"

	"mutualtasks-backend/internal/task/domain"
)

// Bucket is a user-facing grouping of tasks. Bucketing is a pure projection
// over the current snapshot; it never writes.
type Bucket string

const (
	BucketNeedsAction Bucket = "needs_action"
	BucketActive      Bucket = "active"
	BucketUpcoming    Bucket = "upcoming"
	BucketCompleted   Bucket = "completed"
	BucketArchived    Bucket = "archived"
)

// ParseBucket validates a bucket name from the transport layer
func ParseBucket(s string) (Bucket, bool) {
	switch Bucket(s) {
	case BucketNeedsAction, BucketActive, BucketUpcoming, BucketCompleted, BucketArchived:
		return Bucket(s), true
	}
	return "", false
}

// InBucket classifies one task for one viewing user. A recovered-but-
// incomplete task is surfaced in Active rather than Needs Action so a user
// is not pressured twice for the same miss. A nil status falls back to
// membership-based visibility in Active: the task stays visible to its
// creator and to current project participants (member); callers log that
// condition.
func InBucket(bucket Bucket, task *domain.Task, status *domain.ParticipantStatus, completion *domain.CompletionRecord, viewerID string, member bool, today time.Time) bool {
	today = domain.StartOfDay(today)

	if status == nil {
		// Anomalous fallback: visible as active work, nothing else can be
		// derived without a status row.
		return bucket == BucketActive &&
			task.TaskLevelStatus == domain.StatusActive &&
			(task.CreatorID == viewerID || member)
	}

	due := domain.StartOfDay(status.EffectiveDueDate)

	switch bucket {
	case BucketNeedsAction:
		return status.Status == domain.StatusActive &&
			task.TaskLevelStatus != domain.StatusCompleted &&
			!due.After(today) &&
			completion == nil &&
			!status.Recovered()

	case BucketActive:
		return status.Status == domain.StatusActive &&
			task.TaskLevelStatus != domain.StatusArchived &&
			task.TaskLevelStatus != domain.StatusCompleted

	case BucketUpcoming:
		return status.Status == domain.StatusActive &&
			task.TaskLevelStatus != domain.StatusArchived &&
			task.TaskLevelStatus != domain.StatusCompleted &&
			due.After(today)

	case BucketCompleted:
		if completion != nil {
			return true
		}
		return task.TaskLevelStatus == domain.StatusCompleted && task.CreatorID == viewerID

	case BucketArchived:
		return (status.Status == domain.StatusArchived || task.TaskLevelStatus == domain.StatusArchived) &&
			!status.Recovered() &&
			status.Status != domain.StatusCompleted &&
			completion == nil
	}
	return false
}

// TaskLevelBucket classifies a task for the project-wide view, where no
// viewing user is supplied: membership is computed against the task's own
// aggregate status and due date.
func TaskLevelBucket(bucket Bucket, task *domain.Task, today time.Time) bool {
	today = domain.StartOfDay(today)
	due := domain.StartOfDay(task.DueDate)

	switch bucket {
	case BucketNeedsAction:
		return task.TaskLevelStatus == domain.StatusActive && !due.After(today)
	case BucketActive:
		return task.TaskLevelStatus == domain.StatusActive
	case BucketUpcoming:
		return task.TaskLevelStatus == domain.StatusActive && due.After(today)
	case BucketCompleted:
		return task.TaskLevelStatus == domain.StatusCompleted
	case BucketArchived:
		return task.TaskLevelStatus == domain.StatusArchived
	}
	return false
}

func (u *taskUsecase) ListBucket(userID string, bucket Bucket) ([]*TaskView, error) {
	statuses, err := u.statusRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	completions, err := u.completionRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	completionByTask := make(map[string]*domain.CompletionRecord, len(completions))
	for _, c := range completions {
		if _, ok := completionByTask[c.TaskID]; !ok {
			completionByTask[c.TaskID] = c
		}
	}

	today := u.now()
	seen := make(map[string]bool, len(statuses))
	var views []*TaskView
	for _, status := range statuses {
		seen[status.TaskID] = true
		task, err := u.taskRepo.FindByID(status.TaskID)
		if err != nil {
			return nil, err
		}
		if task == nil {
			log.Printf("[TaskUsecase] anomaly: status for user %s references missing task %s", userID, status.TaskID)
			continue
		}
		completion := completionByTask[status.TaskID]
		if InBucket(bucket, task, status, completion, userID, false, today) {
			views = append(views, &TaskView{Task: task, Status: status, Completion: completion})
		}
	}

	// Tasks in the viewer's projects with no status row for them: the row
	// should always exist, so its absence is logged, but the task must not
	// silently vanish from the viewer's lists.
	projects, err := u.projectRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		tasks, err := u.taskRepo.FindByProjectID(project.ID)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			if seen[task.ID] {
				continue
			}
			seen[task.ID] = true
			log.Printf("[TaskUsecase] anomaly: user %s has no status row for task %s, falling back to membership visibility", userID, task.ID)
			completion := completionByTask[task.ID]
			if InBucket(bucket, task, nil, completion, userID, true, today) {
				views = append(views, &TaskView{Task: task, Completion: completion})
			}
		}
	}

	sort.Slice(views, func(i, j int) bool {
		if !views[i].Task.DueDate.Equal(views[j].Task.DueDate) {
			return views[i].Task.DueDate.Before(views[j].Task.DueDate)
		}
		return views[i].Task.CreatedAt.Before(views[j].Task.CreatedAt)
	})
	return views, nil
}

func (u *taskUsecase) ListProjectBucket(projectID string, bucket Bucket) ([]*domain.Task, error) {
	tasks, err := u.taskRepo.FindByProjectID(projectID)
	if err != nil {
		return nil, err
	}

	today := u.now()
	var out []*domain.Task
	for _, task := range tasks {
		if TaskLevelBucket(bucket, task, today) {
			out = append(out, task)
		}
	}
	return out, nil
}
