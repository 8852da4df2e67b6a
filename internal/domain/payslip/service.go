package payslip

import (
	"context"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
)

// PayslipService owns the payslip lifecycle from generation to dispatch.
type PayslipService interface {
	// Generate is idempotent per (profileID, period): an existing payslip is
	// returned unchanged instead of erroring or duplicating.
	Generate(ctx context.Context, profileID, period string) (Payslip, error)

	// GenerateForPeriod generates payslips for every active profile,
	// continuing past individual failures. Scheduler entry point.
	GenerateForPeriod(ctx context.Context, period string) ([]Payslip, error)

	Approve(ctx context.Context, adminID, id string) (Payslip, error)

	// RenderAndSend renders the payslip document, stores its URL and moves the
	// payslip to SENT. Payslips already SENT are skipped, not re-sent.
	RenderAndSend(ctx context.Context, id string) (Payslip, error)

	// DispatchApproved runs RenderAndSend over every APPROVED payslip and
	// returns how many were sent. Safe to re-invoke. Scheduler entry point.
	DispatchApproved(ctx context.Context) (int, error)

	GetByID(ctx context.Context, actor auth.Actor, id string) (Payslip, error)
	ListForActor(ctx context.Context, actor auth.Actor) ([]Payslip, error)

	// ListByStatus is the admin review view, typically filtered to PENDING.
	ListByStatus(ctx context.Context, status PayslipStatus) ([]Payslip, error)
}
