package notification

import "time"

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeSaleSubmitted    NotificationType = "sale_submitted"
	TypeSaleApproved     NotificationType = "sale_approved"
	TypeSaleRejected     NotificationType = "sale_rejected"
	TypeSaleRefunded     NotificationType = "sale_refunded"
	TypePayslipGenerated NotificationType = "payslip_generated"
	TypePayslipSent      NotificationType = "payslip_sent"
	TypeCommissionEarned NotificationType = "commission_earned"
)

// Notification is one outbound message to a reseller profile.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]string
	IsRead      bool
	CreatedAt   time.Time
}

// AuditRecord is one structured audit-log event emitted by a mutating
// operation. Emission is fire-and-forget relative to the core transaction.
type AuditRecord struct {
	ID        string
	ActorID   string
	Action    string
	EntityID  string
	Details   map[string]string
	Timestamp time.Time
}

type CreateNotificationRequest struct {
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]string
}
