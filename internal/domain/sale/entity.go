package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus is the main confirmation state machine:
// PENDING -> PENDING_APPROVAL -> {APPROVED | REJECTED}, APPROVED -> REFUNDED.
type SaleStatus string

const (
	SaleStatusPending         SaleStatus = "PENDING"
	SaleStatusPendingApproval SaleStatus = "PENDING_APPROVAL"
	SaleStatusApproved        SaleStatus = "APPROVED"
	SaleStatusRejected        SaleStatus = "REJECTED"
	SaleStatusRefunded        SaleStatus = "REFUNDED"
)

// PaymentSubStatus tracks the independent card-settlement and receipt
// sub-workflows; either can complete before or after the main approval.
type PaymentSubStatus string

const (
	PaymentSubStatusPending   PaymentSubStatus = "PENDING"
	PaymentSubStatusCompleted PaymentSubStatus = "COMPLETED"
)

// AuditEntry is one immutable element of a sale's append-only audit trail.
type AuditEntry struct {
	Action    string            `json:"action"`
	ActorID   string            `json:"actor_id"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Sale is a single commissionable transaction tied to a lead.
// AgentID/ManagerID are denormalized ownership columns maintained at creation
// time; authorization is decided from a per-request scope, not these columns.
type Sale struct {
	ID        string
	LeadID    string
	AgentID   *string
	ManagerID *string
	Amount    decimal.Decimal
	SaleDate  time.Time

	Status            SaleStatus
	CardPaymentStatus PaymentSubStatus
	ReceiptStatus     PaymentSubStatus

	SubmittedAt   *time.Time
	SubmittedByID *string

	ApprovedAt   *time.Time
	ApprovedByID *string

	RejectedAt      *time.Time
	RejectedByID    *string
	RejectionReason *string

	RefundedAt   *time.Time
	RefundedByID *string
	RefundReason *string

	Metadata []AuditEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal reports whether the sale reached a state the approval engine no
// longer advances (REJECTED re-opens via resubmission, so it is not terminal).
func (s Sale) IsTerminal() bool {
	return s.Status == SaleStatusRefunded
}

// OwnedBy reports whether the given profile is the recorded agent or manager.
func (s Sale) OwnedBy(profileID string) bool {
	if s.AgentID != nil && *s.AgentID == profileID {
		return true
	}
	if s.ManagerID != nil && *s.ManagerID == profileID {
		return true
	}
	return false
}
