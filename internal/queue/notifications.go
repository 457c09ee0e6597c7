package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// notificationQueueKey is the Redis list holding pending notifications
const notificationQueueKey = "compliance:notifications"

// NotificationJob is one queued delivery
type NotificationJob struct {
	ID        uuid.UUID       `json:"id"`
	Kind      string          `json:"kind"`
	Subject   string          `json:"subject"`
	Body      string          `json:"body"`
	Severity  string          `json:"severity,omitempty"`
	Reference string          `json:"reference,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NotificationHandler delivers a single notification. Errors are logged
// and the job is dropped; notifications are fire-and-forget by design.
type NotificationHandler func(ctx context.Context, job NotificationJob) error

// NotificationQueue is a Redis-backed queue decoupling notification
// delivery from the compliance operations that raise them
type NotificationQueue struct {
	client *redis.Client
}

// NewNotificationQueue creates a new notification queue
func NewNotificationQueue(client *redis.Client) *NotificationQueue {
	return &NotificationQueue{client: client}
}

// Enqueue adds a notification to the queue
func (q *NotificationQueue) Enqueue(ctx context.Context, job NotificationJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := q.client.LPush(ctx, notificationQueueKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout waiting for a notification. A nil job
// with nil error means the wait timed out.
func (q *NotificationQueue) Dequeue(ctx context.Context, timeout time.Duration) (*NotificationJob, error) {
	result, err := q.client.BRPop(ctx, timeout, notificationQueueKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue notification: %w", err)
	}
	// BRPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(result))
	}

	var job NotificationJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	return &job, nil
}

// Worker drains the notification queue
type Worker struct {
	queue   *NotificationQueue
	handler NotificationHandler
	wg      sync.WaitGroup
	quit    chan struct{}
}

// NewWorker creates a new notification worker
func NewWorker(queue *NotificationQueue, handler NotificationHandler) *Worker {
	return &Worker{
		queue:   queue,
		handler: handler,
		quit:    make(chan struct{}),
	}
}

// Start starts the worker loop
func (w *Worker) Start() {
	log.Println("Starting notification worker")
	w.wg.Add(1)
	go w.process()
}

// Stop stops the worker and waits for the in-flight delivery
func (w *Worker) Stop() {
	log.Println("Stopping notification worker")
	close(w.quit)
	w.wg.Wait()
}

func (w *Worker) process() {
	defer w.wg.Done()

	ctx := context.Background()
	for {
		select {
		case <-w.quit:
			return
		default:
			job, err := w.queue.Dequeue(ctx, 1*time.Second)
			if err != nil {
				log.Printf("Error dequeueing notification: %v", err)
				time.Sleep(1 * time.Second)
				continue
			}
			if job == nil {
				continue
			}

			if err := w.handler(ctx, *job); err != nil {
				// Dropped on purpose: notifications carry no delivery
				// guarantee.
				log.Printf("Failed to deliver notification %s: %v", job.ID, err)
			}
		}
	}
}

// LogDelivery is the default NotificationHandler; it writes the
// notification to the process log. Production wires a webhook or
// messaging integration here.
func LogDelivery(ctx context.Context, job NotificationJob) error {
	log.Printf("notification [%s] %s: %s", job.Kind, job.Subject, job.Body)
	return nil
}
