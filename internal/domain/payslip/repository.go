package payslip

import "context"

// PayslipRepository defines data access methods for payslips.
//
// Mark* methods are conditional writes on the expected current status and
// return ErrPayslipAlreadyProcessed when no row matched.
type PayslipRepository interface {
	// Create inserts a new PENDING payslip. The (profile_id, period) unique
	// constraint resolves concurrent generation: the loser of the race gets
	// ErrPayslipAlreadyExists and re-reads the winner's row.
	Create(ctx context.Context, p Payslip) (Payslip, error)

	GetByID(ctx context.Context, id string) (Payslip, error)
	GetByProfilePeriod(ctx context.Context, profileID, period string) (Payslip, error)
	ListByStatus(ctx context.Context, status PayslipStatus) ([]Payslip, error)
	ListByProfileID(ctx context.Context, profileID string) ([]Payslip, error)

	MarkApproved(ctx context.Context, id, adminID string) error
	MarkSent(ctx context.Context, id, pdfURL string) error
}
