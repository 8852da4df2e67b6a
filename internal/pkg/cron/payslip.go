package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cruisehub/reseller-backend-go/internal/domain/commission"
	"github.com/cruisehub/reseller-backend-go/internal/domain/payslip"
)

// PayslipJobs wires the settlement core's idempotent entry points to the
// scheduler. The core holds no knowledge of when it runs; every job here can
// fire redundantly without effect.
type PayslipJobs struct {
	payslipSvc    payslip.PayslipService
	generationDay int
}

func NewPayslipJobs(payslipSvc payslip.PayslipService, generationDay int) *PayslipJobs {
	if generationDay < 1 || generationDay > 28 {
		generationDay = 1
	}
	return &PayslipJobs{
		payslipSvc:    payslipSvc,
		generationDay: generationDay,
	}
}

func (j *PayslipJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("generate_monthly_payslips", 1*time.Hour, 10*time.Minute, j.GenerateMonthlyPayslips)
	scheduler.AddJob("dispatch_approved_payslips", 15*time.Minute, 10*time.Minute, j.DispatchApprovedPayslips)
}

// GenerateMonthlyPayslips generates payslips for the previous calendar month.
// Only runs on the configured day of month; re-runs later the same day find
// the existing rows and do nothing.
func (j *PayslipJobs) GenerateMonthlyPayslips(ctx context.Context) error {
	now := time.Now().UTC()
	if now.Day() != j.generationDay {
		return nil
	}

	period := commission.PeriodOf(now).Previous().String()
	slog.Info("Cron: generating monthly payslips", "period", period)

	generated, err := j.payslipSvc.GenerateForPeriod(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to generate payslips for period %s: %w", period, err)
	}

	slog.Info("Cron: monthly payslip generation finished", "period", period, "count", len(generated))
	return nil
}

// DispatchApprovedPayslips renders and sends every APPROVED payslip. Render
// failures leave the payslip APPROVED for the next run.
func (j *PayslipJobs) DispatchApprovedPayslips(ctx context.Context) error {
	sent, err := j.payslipSvc.DispatchApproved(ctx)
	if err != nil {
		return fmt.Errorf("failed to dispatch approved payslips: %w", err)
	}

	if sent > 0 {
		slog.Info("Cron: dispatched approved payslips", "sent", sent)
	}
	return nil
}
