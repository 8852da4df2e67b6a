package payslip

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayslipStatus is the disbursement state machine: PENDING -> APPROVED -> SENT.
type PayslipStatus string

const (
	PayslipStatusPending  PayslipStatus = "PENDING"
	PayslipStatusApproved PayslipStatus = "APPROVED"
	PayslipStatusSent     PayslipStatus = "SENT"
)

// PayslipType distinguishes payout kinds; commission settlement is the only
// type the settlement core generates.
type PayslipType string

const (
	PayslipTypeCommission PayslipType = "COMMISSION"
)

// Payslip is a period-scoped aggregation of one profile's approved commission.
// Unique on (ProfileID, Period): generation is idempotent per period.
type Payslip struct {
	ID        string
	ProfileID string
	Period    string
	Type      PayslipType

	TotalSales       decimal.Decimal
	TotalCommission  decimal.Decimal
	TotalWithholding decimal.Decimal
	NetPayment       decimal.Decimal

	Status     PayslipStatus
	ApprovedAt *time.Time
	ApprovedBy *string
	SentAt     *time.Time
	PdfURL     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
