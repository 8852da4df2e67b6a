package notification

import "context"

// Repository persists notifications and audit records in batches.
type Repository interface {
	CreateBatch(ctx context.Context, notifications []*Notification) error
	CreateAuditBatch(ctx context.Context, records []*AuditRecord) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}
