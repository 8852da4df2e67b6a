package sale

import (
	"time"

	"github.com/cruisehub/reseller-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateSaleRequest struct {
	LeadID   string `json:"lead_id"`
	Amount   string `json:"amount"`
	SaleDate string `json:"sale_date"`
}

func (r CreateSaleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeadID) {
		errs = append(errs, validator.ValidationError{Field: "lead_id", Message: "lead_id is required"})
	}
	if amount, err := decimal.NewFromString(r.Amount); err != nil {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be a valid number"})
	} else if amount.IsNegative() || amount.IsZero() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amount must be positive"})
	}
	if _, ok := validator.IsValidDate(r.SaleDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "sale_date", Message: "sale_date must be YYYY-MM-DD"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectSaleRequest struct {
	Reason string `json:"reason"`
}

func (r RejectSaleRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return validator.ValidationErrors{{Field: "reason", Message: "rejection reason is required"}}
	}
	return nil
}

type RefundSaleRequest struct {
	Reason string `json:"reason"`
}

func (r RefundSaleRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return validator.ValidationErrors{{Field: "reason", Message: "refund reason is required"}}
	}
	return nil
}

type SaleResponse struct {
	ID                string          `json:"id"`
	LeadID            string          `json:"lead_id"`
	AgentID           *string         `json:"agent_id,omitempty"`
	ManagerID         *string         `json:"manager_id,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	SaleDate          string          `json:"sale_date"`
	Status            string          `json:"status"`
	CardPaymentStatus string          `json:"card_payment_status"`
	ReceiptStatus     string          `json:"receipt_status"`
	SubmittedAt       *string         `json:"submitted_at,omitempty"`
	SubmittedByID     *string         `json:"submitted_by_id,omitempty"`
	ApprovedAt        *string         `json:"approved_at,omitempty"`
	ApprovedByID      *string         `json:"approved_by_id,omitempty"`
	RejectedAt        *string         `json:"rejected_at,omitempty"`
	RejectionReason   *string         `json:"rejection_reason,omitempty"`
	RefundedAt        *string         `json:"refunded_at,omitempty"`
	RefundReason      *string         `json:"refund_reason,omitempty"`
	Metadata          []AuditEntry    `json:"metadata,omitempty"`
}

func ToResponse(s Sale) SaleResponse {
	return SaleResponse{
		ID:                s.ID,
		LeadID:            s.LeadID,
		AgentID:           s.AgentID,
		ManagerID:         s.ManagerID,
		Amount:            s.Amount,
		SaleDate:          s.SaleDate.Format("2006-01-02"),
		Status:            string(s.Status),
		CardPaymentStatus: string(s.CardPaymentStatus),
		ReceiptStatus:     string(s.ReceiptStatus),
		SubmittedAt:       formatTimePtr(s.SubmittedAt),
		SubmittedByID:     s.SubmittedByID,
		ApprovedAt:        formatTimePtr(s.ApprovedAt),
		ApprovedByID:      s.ApprovedByID,
		RejectedAt:        formatTimePtr(s.RejectedAt),
		RejectionReason:   s.RejectionReason,
		RefundedAt:        formatTimePtr(s.RefundedAt),
		RefundReason:      s.RefundReason,
		Metadata:          s.Metadata,
	}
}

func ToResponses(sales []Sale) []SaleResponse {
	result := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		result = append(result, ToResponse(s))
	}
	return result
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(time.RFC3339)
	return &str
}
