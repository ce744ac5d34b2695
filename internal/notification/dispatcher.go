package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	authrepo "mutualtasks-backend/internal/auth/repository"
	"mutualtasks-backend/internal/task/domain"
	"mutualtasks-backend/internal/task/repository"
	"mutualtasks-backend/pkg/fcm"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Dispatcher drains the lifecycle event outbox. For each undispatched event
// it pushes FCM notifications to the other participants' devices and, when
// configured, publishes the event to a Pub/Sub topic for external consumers.
// An event is marked dispatched only after successful fan-out, so failures
// are retried on the next poll.
type Dispatcher struct {
	eventRepo  repository.EventRepository
	statusRepo repository.StatusRepository
	fcmRepo    authrepo.FCMTokenRepository
	fcmClient  *fcm.Client
	client     *pubsub.Client
	topic      *pubsub.Topic
	interval   time.Duration
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// NewDispatcher creates a dispatcher. fcmClient and the Pub/Sub settings are
// optional; with neither configured the dispatcher still drains the outbox.
func NewDispatcher(
	eventRepo repository.EventRepository,
	statusRepo repository.StatusRepository,
	fcmRepo authrepo.FCMTokenRepository,
	fcmClient *fcm.Client,
	projectID, topicName, credentialsFile string,
	interval time.Duration,
) (*Dispatcher, error) {
	d := &Dispatcher{
		eventRepo:  eventRepo,
		statusRepo: statusRepo,
		fcmRepo:    fcmRepo,
		fcmClient:  fcmClient,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}

	if projectID != "" && topicName != "" {
		var opts []option.ClientOption
		if credentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
		client, err := pubsub.NewClient(context.Background(), projectID, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create pubsub client: %w", err)
		}
		d.client = client
		d.topic = client.Topic(topicName)
	}

	return d, nil
}

// Start begins the polling loop
func (d *Dispatcher) Start() {
	log.Printf("[Outbox] Starting dispatcher (interval: %s)", d.interval)

	go func() {
		d.drain()

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.drain()
			case <-d.stopChan:
				log.Println("[Outbox] Dispatcher stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the dispatcher. The Pub/Sub topic is flushed and
// its client closed so no publish goroutines outlive the dispatcher. Safe
// to call more than once.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopChan)
		if d.topic != nil {
			d.topic.Stop()
		}
		if d.client != nil {
			if err := d.client.Close(); err != nil {
				log.Printf("[Outbox] Error closing pubsub client: %v", err)
			}
		}
	})
}

func (d *Dispatcher) drain() {
	events, err := d.eventRepo.FindUndispatched(50)
	if err != nil {
		log.Printf("[Outbox] Error fetching undispatched events: %v", err)
		return
	}

	for _, event := range events {
		if err := d.dispatch(event); err != nil {
			log.Printf("[Outbox] Failed to dispatch event %s (%s), will retry: %v", event.ID, event.Type, err)
			continue
		}
		if err := d.eventRepo.MarkDispatched(event.ID); err != nil {
			log.Printf("[Outbox] Error marking event %s dispatched: %v", event.ID, err)
		}
	}
}

func (d *Dispatcher) dispatch(event *domain.TaskEvent) error {
	ctx := context.Background()

	if d.topic != nil {
		result := d.topic.Publish(ctx, &pubsub.Message{
			Data: []byte(event.Payload),
			Attributes: map[string]string{
				"type":       string(event.Type),
				"task_id":    event.TaskID,
				"project_id": event.ProjectID,
				"actor_id":   event.ActorID,
			},
		})
		if _, err := result.Get(ctx); err != nil {
			return fmt.Errorf("pubsub publish: %w", err)
		}
	}

	if d.fcmClient != nil {
		if err := d.push(ctx, event); err != nil {
			return err
		}
	}

	return nil
}

// push notifies every participant of the task except the actor
func (d *Dispatcher) push(ctx context.Context, event *domain.TaskEvent) error {
	statuses, err := d.statusRepo.FindByTask(event.TaskID)
	if err != nil {
		return err
	}

	var tokens []string
	for _, status := range statuses {
		if status.UserID == event.ActorID {
			continue
		}
		userTokens, err := d.fcmRepo.GetTokensByUserID(status.UserID)
		if err != nil {
			log.Printf("[Outbox] Error getting FCM tokens for user %s: %v", status.UserID, err)
			continue
		}
		for _, t := range userTokens {
			tokens = append(tokens, t.Token)
		}
	}

	if len(tokens) == 0 {
		return nil
	}

	title, body := describe(event)
	failedTokens, err := d.fcmClient.SendToDevices(ctx, tokens, fcm.NotificationData{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":    string(event.Type),
			"task_id": event.TaskID,
		},
	})
	if err != nil {
		return err
	}

	for _, token := range failedTokens {
		if err := d.fcmRepo.DeleteToken(token); err != nil {
			log.Printf("[Outbox] Error deleting stale FCM token: %v", err)
		}
	}
	return nil
}

func describe(event *domain.TaskEvent) (title, body string) {
	switch event.Type {
	case domain.EventTaskCreated:
		return "New shared task", "A task was added to your project"
	case domain.EventTaskCompleted:
		return "Partner progress", "A participant completed their part of a task"
	case domain.EventTaskCompletedAll:
		return "Task complete", "Everyone finished the task"
	case domain.EventTaskRecovered:
		return "Task recovered", "An archived task was brought back"
	case domain.EventTaskArchived:
		return "Task archived", "A task was missed and archived"
	case domain.EventTaskDeleted:
		return "Task removed", "A task was deleted from your project"
	}
	return "Task update", "A shared task changed"
}
