package notification

import "context"

// Service is the fire-and-forget notification/audit sink. Neither Notify nor
// Audit returns an error: a sink failure must never roll back the state
// transition that produced the event.
type Service interface {
	Notify(req CreateNotificationRequest)
	Audit(record AuditRecord)

	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error

	// Shutdown flushes queued events and stops the background workers.
	Shutdown()
}
