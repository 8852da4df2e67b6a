package payslip

import (
	"time"

	"github.com/cruisehub/reseller-backend-go/internal/domain/commission"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GeneratePayslipRequest struct {
	ProfileID string `json:"profile_id"`
	Period    string `json:"period"`
}

func (r GeneratePayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ProfileID) {
		errs = append(errs, validator.ValidationError{Field: "profile_id", Message: "profile_id is required"})
	}
	if _, err := commission.ParsePeriod(r.Period); err != nil {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "period must be YYYY-MM"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayslipResponse struct {
	ID               string          `json:"id"`
	ProfileID        string          `json:"profile_id"`
	Period           string          `json:"period"`
	Type             string          `json:"type"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalCommission  decimal.Decimal `json:"total_commission"`
	TotalWithholding decimal.Decimal `json:"total_withholding"`
	NetPayment       decimal.Decimal `json:"net_payment"`
	Status           string          `json:"status"`
	ApprovedAt       *string         `json:"approved_at,omitempty"`
	ApprovedBy       *string         `json:"approved_by,omitempty"`
	SentAt           *string         `json:"sent_at,omitempty"`
	PdfURL           *string         `json:"pdf_url,omitempty"`
}

func ToResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:               p.ID,
		ProfileID:        p.ProfileID,
		Period:           p.Period,
		Type:             string(p.Type),
		TotalSales:       p.TotalSales,
		TotalCommission:  p.TotalCommission,
		TotalWithholding: p.TotalWithholding,
		NetPayment:       p.NetPayment,
		Status:           string(p.Status),
		ApprovedAt:       formatTimePtr(p.ApprovedAt),
		ApprovedBy:       p.ApprovedBy,
		SentAt:           formatTimePtr(p.SentAt),
		PdfURL:           p.PdfURL,
	}
}

func ToResponses(payslips []Payslip) []PayslipResponse {
	result := make([]PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		result = append(result, ToResponse(p))
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
