package usecase

import (
	"testing"
	"time"

	"mutualtasks-backend/internal/task/domain"
)

func TestParseBucket(t *testing.T) {
	for _, s := range []string{"needs_action", "active", "upcoming", "completed", "archived"} {
		if _, ok := ParseBucket(s); !ok {
			t.Errorf("ParseBucket(%q) rejected a valid bucket", s)
		}
	}
	if _, ok := ParseBucket("overdue"); ok {
		t.Error("ParseBucket accepted an unknown bucket")
	}
}

func TestInBucketClassification(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)
	now := today.Add(10 * time.Hour)

	activeTask := func(due time.Time) *domain.Task {
		task := domain.NewOneOffTask("p1", "alice", "t", "", due)
		task.ID = "t1"
		return task
	}
	activeStatus := func(due time.Time) *domain.ParticipantStatus {
		return domain.NewParticipantStatus("t1", "alice", due)
	}

	recoveredStatus := activeStatus(yesterday)
	recoveredStatus.RecoveredAt = &now
	recoveredStatus.RingColor = domain.RingYellow

	completedStatus := activeStatus(yesterday)
	completedStatus.Status = domain.StatusCompleted
	completedStatus.RingColor = domain.RingGreen

	archivedStatus := activeStatus(yesterday)
	archivedStatus.Status = domain.StatusArchived
	archivedStatus.ArchivedAt = &now

	completedTask := activeTask(yesterday)
	completedTask.TaskLevelStatus = domain.StatusCompleted

	record := &domain.CompletionRecord{TaskID: "t1", UserID: "alice", CompletedAt: now}

	cases := []struct {
		name       string
		task       *domain.Task
		status     *domain.ParticipantStatus
		completion *domain.CompletionRecord
		want       map[Bucket]bool
	}{
		{
			name:   "due yesterday, active, no completion",
			task:   activeTask(yesterday),
			status: activeStatus(yesterday),
			want:   map[Bucket]bool{BucketNeedsAction: true, BucketActive: true, BucketUpcoming: false},
		},
		{
			name:   "due today counts as needing action",
			task:   activeTask(today),
			status: activeStatus(today),
			want:   map[Bucket]bool{BucketNeedsAction: true, BucketUpcoming: false},
		},
		{
			name:   "due tomorrow is upcoming only",
			task:   activeTask(tomorrow),
			status: activeStatus(tomorrow),
			want:   map[Bucket]bool{BucketNeedsAction: false, BucketActive: true, BucketUpcoming: true},
		},
		{
			name:   "recovered is active but not pressured again",
			task:   activeTask(yesterday),
			status: recoveredStatus,
			want:   map[Bucket]bool{BucketNeedsAction: false, BucketActive: true, BucketArchived: false},
		},
		{
			name:       "completed with record",
			task:       activeTask(yesterday),
			status:     completedStatus,
			completion: record,
			want:       map[Bucket]bool{BucketCompleted: true, BucketNeedsAction: false, BucketActive: false},
		},
		{
			name:   "archived participant",
			task:   activeTask(yesterday),
			status: archivedStatus,
			want:   map[Bucket]bool{BucketArchived: true, BucketActive: false, BucketNeedsAction: false},
		},
		{
			name:   "task completed for everyone hides active work",
			task:   completedTask,
			status: activeStatus(yesterday),
			want:   map[Bucket]bool{BucketActive: false, BucketNeedsAction: false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for bucket, want := range tc.want {
				got := InBucket(bucket, tc.task, tc.status, tc.completion, "alice", false, now)
				if got != want {
					t.Errorf("InBucket(%s) = %v, want %v", bucket, got, want)
				}
			}
		})
	}
}

func TestInBucketNilStatusFallback(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	task := domain.NewOneOffTask("p1", "alice", "t", "", now)
	task.ID = "t1"

	if !InBucket(BucketActive, task, nil, nil, "alice", false, now) {
		t.Error("creator should still see their task as active without a status row")
	}
	if !InBucket(BucketActive, task, nil, nil, "bob", true, now) {
		t.Error("project participant should still see the task as active without a status row")
	}
	if InBucket(BucketActive, task, nil, nil, "bob", false, now) {
		t.Error("non-member without a status row should see nothing")
	}
	for _, bucket := range []Bucket{BucketNeedsAction, BucketUpcoming, BucketCompleted, BucketArchived} {
		if InBucket(bucket, task, nil, nil, "alice", true, now) {
			t.Errorf("nil status surfaced task in %s", bucket)
		}
	}
}

func TestListBucketMissingStatusFallback(t *testing.T) {
	f := newFixture(testNow)
	seedProject(f, "p1", "alice", "bob")

	// Status row created for alice only; bob's row is missing.
	task := domain.NewOneOffTask("p1", "alice", "shared chore", "", testNow)
	if err := f.tasks.Create(task); err != nil {
		t.Fatal(err)
	}
	if err := f.statuses.Create(domain.NewParticipantStatus(task.ID, "alice", task.DueDate)); err != nil {
		t.Fatal(err)
	}

	views, err := f.uc.ListBucket("bob", BucketActive)
	if err != nil {
		t.Fatalf("ListBucket: %v", err)
	}
	if len(views) != 1 || views[0].Task.ID != task.ID {
		t.Fatalf("task with a lost status row vanished from bob's active bucket: %v", views)
	}
	if views[0].Status != nil {
		t.Error("fallback view fabricated a status row")
	}

	// The fallback surfaces active work only; other buckets stay empty.
	for _, bucket := range []Bucket{BucketNeedsAction, BucketUpcoming, BucketCompleted, BucketArchived} {
		views, err := f.uc.ListBucket("bob", bucket)
		if err != nil {
			t.Fatalf("ListBucket(%s): %v", bucket, err)
		}
		if len(views) != 0 {
			t.Errorf("fallback surfaced the task in %s", bucket)
		}
	}

	// Alice still sees her own status-backed view exactly once.
	views, err = f.uc.ListBucket("alice", BucketActive)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 || views[0].Status == nil {
		t.Errorf("status-backed view broken by the fallback scan: %v", views)
	}
}

func TestTaskLevelBucket(t *testing.T) {
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	build := func(status domain.Status, due time.Time) *domain.Task {
		task := domain.NewOneOffTask("p1", "alice", "t", "", due)
		task.TaskLevelStatus = status
		return task
	}

	cases := []struct {
		name   string
		task   *domain.Task
		bucket Bucket
		want   bool
	}{
		{"active overdue needs action", build(domain.StatusActive, today.AddDate(0, 0, -1)), BucketNeedsAction, true},
		{"active future is upcoming", build(domain.StatusActive, today.AddDate(0, 0, 3)), BucketUpcoming, true},
		{"active future is not needs action", build(domain.StatusActive, today.AddDate(0, 0, 3)), BucketNeedsAction, false},
		{"completed task", build(domain.StatusCompleted, today), BucketCompleted, true},
		{"archived task", build(domain.StatusArchived, today), BucketArchived, true},
		{"archived task is not active", build(domain.StatusArchived, today), BucketActive, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TaskLevelBucket(tc.bucket, tc.task, today); got != tc.want {
				t.Errorf("TaskLevelBucket(%s) = %v, want %v", tc.bucket, got, tc.want)
			}
		})
	}
}

func TestListBucketOrdersByDueDate(t *testing.T) {
	f := newFixture(testNow)

	later := seedTask(t, f, "alice", testNow.AddDate(0, 0, 5), "alice")
	sooner := seedTask(t, f, "alice", testNow.AddDate(0, 0, 2), "alice")

	views, err := f.uc.ListBucket("alice", BucketUpcoming)
	if err != nil {
		t.Fatalf("ListBucket: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d tasks, want 2", len(views))
	}
	if views[0].Task.ID != sooner.ID || views[1].Task.ID != later.ID {
		t.Errorf("upcoming tasks out of due-date order: %s before %s", views[0].Task.ID, views[1].Task.ID)
	}
}

func TestListBucketAfterLifecycle(t *testing.T) {
	f := newFixture(testNow)
	task := seedTask(t, f, "alice", testNow.AddDate(0, 0, -1), "alice", "bob")

	listIDs := func(bucket Bucket) []string {
		views, err := f.uc.ListBucket("alice", bucket)
		if err != nil {
			t.Fatalf("ListBucket(%s): %v", bucket, err)
		}
		ids := make([]string, 0, len(views))
		for _, v := range views {
			ids = append(ids, v.Task.ID)
		}
		return ids
	}

	if ids := listIDs(BucketNeedsAction); len(ids) != 1 || ids[0] != task.ID {
		t.Fatalf("overdue task missing from needs_action: %v", ids)
	}

	if err := f.uc.ArchiveTask("alice", task.ID); err != nil {
		t.Fatal(err)
	}
	if ids := listIDs(BucketArchived); len(ids) != 1 {
		t.Fatalf("archived task missing from archived bucket: %v", ids)
	}

	if _, err := f.uc.RecoverTask("alice", task.ID); err != nil {
		t.Fatal(err)
	}
	if ids := listIDs(BucketNeedsAction); len(ids) != 0 {
		t.Errorf("recovered task resurfaced in needs_action: %v", ids)
	}
	if ids := listIDs(BucketActive); len(ids) != 1 {
		t.Errorf("recovered task missing from active bucket: %v", ids)
	}

	if _, err := f.uc.CompleteTask("alice", task.ID, nil); err != nil {
		t.Fatal(err)
	}
	if ids := listIDs(BucketCompleted); len(ids) != 1 {
		t.Errorf("completed task missing from completed bucket: %v", ids)
	}
	if ids := listIDs(BucketActive); len(ids) != 0 {
		t.Errorf("completed task still listed as active: %v", ids)
	}
}
