package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/fire22/compliance-backend/internal/services/compliance"
)

// Notifier adapts the NotificationQueue to the compliance Notifier
// port: Notify enqueues and returns immediately, the worker delivers.
type Notifier struct {
	queue *NotificationQueue
}

// NewNotifier creates a queue-backed notifier
func NewNotifier(queue *NotificationQueue) *Notifier {
	return &Notifier{queue: queue}
}

// Notify implements compliance.Notifier
func (n *Notifier) Notify(notification compliance.Notification) {
	var payload json.RawMessage
	if notification.Payload != nil {
		data, err := json.Marshal(notification.Payload)
		if err != nil {
			log.Printf("Failed to marshal notification payload: %v", err)
		} else {
			payload = data
		}
	}

	job := NotificationJob{
		Kind:      notification.Kind,
		Subject:   notification.Subject,
		Body:      notification.Body,
		Severity:  notification.Severity,
		Reference: notification.Reference,
		Payload:   payload,
	}
	if err := n.queue.Enqueue(context.Background(), job); err != nil {
		// Fall back to the process log so the notice is not lost
		// silently.
		log.Printf("Failed to enqueue notification [%s] %s: %v", job.Kind, job.Subject, err)
	}
}
