package sale

import (
	"context"
	"time"
)

// ListFilter narrows sale listings.
type ListFilter struct {
	Status *SaleStatus
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// SaleRepository defines data access methods for the sale ledger.
//
// Every Mark* method is a conditional write: the UPDATE carries the expected
// current status in its WHERE clause and the method returns
// ErrInvalidStateTransition when no row matched. That makes the row-level
// transaction the serialization point for concurrent transitions.
type SaleRepository interface {
	Create(ctx context.Context, s Sale) (Sale, error)
	GetByID(ctx context.Context, id string) (Sale, error)
	ListByProfileIDs(ctx context.Context, profileIDs []string, filter ListFilter) ([]Sale, int64, error)

	// ListApprovedInPeriod returns sales owned by any of the given profiles
	// with status APPROVED and sale_date within [from, to).
	ListApprovedInPeriod(ctx context.Context, profileIDs []string, from, to time.Time) ([]Sale, error)

	MarkSubmitted(ctx context.Context, id, actorID string, at time.Time) error
	ClearSubmission(ctx context.Context, id string) error
	MarkApproved(ctx context.Context, id, adminID string, at time.Time) error
	MarkRejected(ctx context.Context, id, adminID, reason string, at time.Time) error
	MarkRefunded(ctx context.Context, id, adminID, reason string, at time.Time) error

	UpdateCardPaymentStatus(ctx context.Context, id string, status PaymentSubStatus) error
	UpdateReceiptStatus(ctx context.Context, id string, status PaymentSubStatus) error

	// AppendMetadata appends one entry to the sale's audit trail. Existing
	// entries are never rewritten.
	AppendMetadata(ctx context.Context, id string, entry AuditEntry) error
}
