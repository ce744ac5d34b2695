package notification

import (
	"sync"
	"testing"
	"time"

	"mutualtasks-backend/internal/task/domain"
)

type stubEventRepo struct {
	mu     sync.Mutex
	drains int
}

func (s *stubEventRepo) Append(event *domain.TaskEvent) error { return nil }

func (s *stubEventRepo) FindUndispatched(limit int) ([]*domain.TaskEvent, error) {
	s.mu.Lock()
	s.drains++
	s.mu.Unlock()
	return nil, nil
}

func (s *stubEventRepo) MarkDispatched(id string) error { return nil }

func (s *stubEventRepo) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drains
}

func TestDispatcherStartStop(t *testing.T) {
	events := &stubEventRepo{}
	d, err := NewDispatcher(events, nil, nil, nil, "", "", "", 5*time.Millisecond)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	d.Start()

	deadline := time.After(2 * time.Second)
	for events.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("dispatcher never drained the outbox")
		case <-time.After(time.Millisecond):
		}
	}

	d.Stop()
	// A second Stop must not panic on the already-closed channel.
	d.Stop()
}
