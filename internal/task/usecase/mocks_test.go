package usecase

import (
	"errors"
	"strconv"
	"time"

	projectdomain "mutualtasks-backend/internal/project/domain"
	"mutualtasks-backend/internal/task/domain"
)

// In-memory fakes for the persistence collaborators. Each Create-style
// method can be made to fail on the nth call via failCreateAt (1-based) to
// exercise rollback paths.

var errInjected = errors.New("injected store failure")

type fakeTaskRepo struct {
	tasks        map[string]*domain.Task
	order        []string
	createCalls  int
	failCreateAt int
	failDelete   bool
	nextID       int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*domain.Task{}}
}

func (r *fakeTaskRepo) Create(task *domain.Task) error {
	r.createCalls++
	if r.failCreateAt > 0 && r.createCalls >= r.failCreateAt {
		return errInjected
	}
	if task.ID == "" {
		r.nextID++
		task.ID = "task-" + strconv.Itoa(r.nextID)
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	cp := *task
	r.tasks[task.ID] = &cp
	r.order = append(r.order, task.ID)
	return nil
}

func (r *fakeTaskRepo) CreateBatch(tasks []*domain.Task) (int, error) {
	for i, task := range tasks {
		if err := r.Create(task); err != nil {
			return i, err
		}
	}
	return len(tasks), nil
}

func (r *fakeTaskRepo) FindByID(id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *task
	return &cp, nil
}

func (r *fakeTaskRepo) FindBySeriesID(seriesID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, id := range r.order {
		if task, ok := r.tasks[id]; ok && task.SeriesID == seriesID {
			cp := *task
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) FindByProjectID(projectID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, id := range r.order {
		if task, ok := r.tasks[id]; ok && task.ProjectID == projectID {
			cp := *task
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(task *domain.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return errors.New("task missing")
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(id string) error {
	if r.failDelete {
		return errInjected
	}
	delete(r.tasks, id)
	return nil
}

type fakeStatusRepo struct {
	statuses     map[string]*domain.ParticipantStatus
	order        []string
	createCalls  int
	failCreateAt int
	failUpdate   bool
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{statuses: map[string]*domain.ParticipantStatus{}}
}

func statusKey(taskID, userID string) string { return taskID + "|" + userID }

func (r *fakeStatusRepo) Create(status *domain.ParticipantStatus) error {
	r.createCalls++
	if r.failCreateAt > 0 && r.createCalls >= r.failCreateAt {
		return errInjected
	}
	key := statusKey(status.TaskID, status.UserID)
	cp := *status
	r.statuses[key] = &cp
	r.order = append(r.order, key)
	return nil
}

func (r *fakeStatusRepo) CreateBatch(statuses []*domain.ParticipantStatus) (int, error) {
	for i, status := range statuses {
		if err := r.Create(status); err != nil {
			return i, err
		}
	}
	return len(statuses), nil
}

func (r *fakeStatusRepo) FindByTaskAndUser(taskID, userID string) (*domain.ParticipantStatus, error) {
	status, ok := r.statuses[statusKey(taskID, userID)]
	if !ok {
		return nil, nil
	}
	cp := *status
	return &cp, nil
}

func (r *fakeStatusRepo) FindByTask(taskID string) ([]*domain.ParticipantStatus, error) {
	var out []*domain.ParticipantStatus
	for _, key := range r.order {
		if status, ok := r.statuses[key]; ok && status.TaskID == taskID {
			cp := *status
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeStatusRepo) FindByUser(userID string) ([]*domain.ParticipantStatus, error) {
	var out []*domain.ParticipantStatus
	for _, key := range r.order {
		if status, ok := r.statuses[key]; ok && status.UserID == userID {
			cp := *status
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeStatusRepo) FindOverdueActive(before time.Time) ([]*domain.ParticipantStatus, error) {
	cutoff := domain.StartOfDay(before)
	var out []*domain.ParticipantStatus
	for _, key := range r.order {
		status, ok := r.statuses[key]
		if !ok {
			continue
		}
		if status.Status == domain.StatusActive && status.RecoveredAt == nil && status.EffectiveDueDate.Before(cutoff) {
			cp := *status
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeStatusRepo) Update(status *domain.ParticipantStatus) error {
	if r.failUpdate {
		return errInjected
	}
	key := statusKey(status.TaskID, status.UserID)
	if _, ok := r.statuses[key]; !ok {
		return errors.New("status missing")
	}
	cp := *status
	r.statuses[key] = &cp
	return nil
}

func (r *fakeStatusRepo) DeleteByTask(taskID string) error {
	for key, status := range r.statuses {
		if status.TaskID == taskID {
			delete(r.statuses, key)
		}
	}
	kept := r.order[:0]
	for _, key := range r.order {
		if _, ok := r.statuses[key]; ok {
			kept = append(kept, key)
		}
	}
	r.order = kept
	return nil
}

type fakeCompletionRepo struct {
	records map[string]*domain.CompletionRecord
	order   []string
	nextID  int
}

func newFakeCompletionRepo() *fakeCompletionRepo {
	return &fakeCompletionRepo{records: map[string]*domain.CompletionRecord{}}
}

func (r *fakeCompletionRepo) Create(record *domain.CompletionRecord) error {
	if record.ID == "" {
		r.nextID++
		record.ID = "rec-" + strconv.Itoa(r.nextID)
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now()
	}
	if _, exists := r.records[record.ID]; !exists {
		r.order = append(r.order, record.ID)
	}
	cp := *record
	r.records[record.ID] = &cp
	return nil
}

func (r *fakeCompletionRepo) remove(id string) {
	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}

func (r *fakeCompletionRepo) FindByTaskAndUser(taskID, userID string) (*domain.CompletionRecord, error) {
	for _, id := range r.order {
		if rec, ok := r.records[id]; ok && rec.TaskID == taskID && rec.UserID == userID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCompletionRepo) FindByTask(taskID string) ([]*domain.CompletionRecord, error) {
	var out []*domain.CompletionRecord
	for _, id := range r.order {
		if rec, ok := r.records[id]; ok && rec.TaskID == taskID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCompletionRepo) FindByUser(userID string) ([]*domain.CompletionRecord, error) {
	var out []*domain.CompletionRecord
	for _, id := range r.order {
		if rec, ok := r.records[id]; ok && rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCompletionRepo) Delete(id string) error {
	r.remove(id)
	return nil
}

func (r *fakeCompletionRepo) DeleteByTask(taskID string) error {
	var ids []string
	for id, rec := range r.records {
		if rec.TaskID == taskID {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		r.remove(id)
	}
	return nil
}

func (r *fakeCompletionRepo) count(taskID, userID string) int {
	n := 0
	for _, rec := range r.records {
		if rec.TaskID == taskID && rec.UserID == userID {
			n++
		}
	}
	return n
}

type fakeEventRepo struct {
	events []*domain.TaskEvent
	fail   bool
}

func (r *fakeEventRepo) Append(event *domain.TaskEvent) error {
	if r.fail {
		return errInjected
	}
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *fakeEventRepo) FindUndispatched(limit int) ([]*domain.TaskEvent, error) {
	var out []*domain.TaskEvent
	for _, e := range r.events {
		if !e.Dispatched && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) MarkDispatched(id string) error {
	for _, e := range r.events {
		if e.ID == id {
			e.Dispatched = true
		}
	}
	return nil
}

func (r *fakeEventRepo) lastType() domain.EventType {
	if len(r.events) == 0 {
		return ""
	}
	return r.events[len(r.events)-1].Type
}

type fakeStatsRepo struct {
	stats map[string]*domain.UserStats
	fail  bool
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: map[string]*domain.UserStats{}}
}

func (r *fakeStatsRepo) Upsert(stats *domain.UserStats) error {
	if r.fail {
		return errInjected
	}
	cp := *stats
	r.stats[stats.UserID] = &cp
	return nil
}

func (r *fakeStatsRepo) FindByUser(userID string) (*domain.UserStats, error) {
	stats, ok := r.stats[userID]
	if !ok {
		return nil, nil
	}
	cp := *stats
	return &cp, nil
}

type fakeProjectRepo struct {
	participants map[string][]string // projectID -> user IDs, creator first
}

func (r *fakeProjectRepo) Create(project *projectdomain.Project) error { return nil }

func (r *fakeProjectRepo) FindByID(id string) (*projectdomain.Project, error) {
	if _, ok := r.participants[id]; !ok {
		return nil, nil
	}
	return &projectdomain.Project{ID: id}, nil
}

func (r *fakeProjectRepo) FindByUserID(userID string) ([]*projectdomain.Project, error) {
	var out []*projectdomain.Project
	for projectID, ids := range r.participants {
		for _, id := range ids {
			if id == userID {
				out = append(out, &projectdomain.Project{ID: projectID})
				break
			}
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) AddParticipant(projectID, userID string) error {
	r.participants[projectID] = append(r.participants[projectID], userID)
	return nil
}

func (r *fakeProjectRepo) RemoveParticipant(projectID, userID string) error {
	ids := r.participants[projectID]
	for i, id := range ids {
		if id == userID {
			r.participants[projectID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeProjectRepo) GetParticipatingUserIDs(projectID string) ([]string, error) {
	return r.participants[projectID], nil
}

func (r *fakeProjectRepo) IsParticipant(projectID, userID string) (bool, error) {
	for _, id := range r.participants[projectID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

// engine under test with a fixed clock

type fixture struct {
	uc          *taskUsecase
	tasks       *fakeTaskRepo
	statuses    *fakeStatusRepo
	completions *fakeCompletionRepo
	events      *fakeEventRepo
	stats       *fakeStatsRepo
	projects    *fakeProjectRepo
	now         time.Time
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		tasks:       newFakeTaskRepo(),
		statuses:    newFakeStatusRepo(),
		completions: newFakeCompletionRepo(),
		events:      &fakeEventRepo{},
		stats:       newFakeStatsRepo(),
		projects:    &fakeProjectRepo{participants: map[string][]string{}},
		now:         now,
	}
	f.uc = NewTaskUsecase(f.tasks, f.statuses, f.completions, f.events, f.stats, f.projects).(*taskUsecase)
	f.uc.now = func() time.Time { return f.now }
	return f
}
