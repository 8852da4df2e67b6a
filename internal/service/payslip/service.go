package payslip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
	"github.com/cruisehub/reseller-backend-go/internal/domain/commission"
	"github.com/cruisehub/reseller-backend-go/internal/domain/notification"
	"github.com/cruisehub/reseller-backend-go/internal/domain/payslip"
	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/docrender"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/validator"
)

type PayslipServiceImpl struct {
	payslipRepo     payslip.PayslipRepository
	profileRepo     profile.ProfileRepository
	relationRepo    profile.RelationRepository
	calculator      *commission.Calculator
	renderer        docrender.Renderer
	notificationSvc notification.Service
}

func NewPayslipService(
	payslipRepo payslip.PayslipRepository,
	profileRepo profile.ProfileRepository,
	relationRepo profile.RelationRepository,
	calculator *commission.Calculator,
	renderer docrender.Renderer,
	notificationSvc notification.Service,
) payslip.PayslipService {
	return &PayslipServiceImpl{
		payslipRepo:     payslipRepo,
		profileRepo:     profileRepo,
		relationRepo:    relationRepo,
		calculator:      calculator,
		renderer:        renderer,
		notificationSvc: notificationSvc,
	}
}

// Generate creates the PENDING payslip for (profileID, period), or returns
// the existing one. Concurrent calls race on the unique constraint; the loser
// re-reads the winner's row, so exactly one row exists afterward.
func (s *PayslipServiceImpl) Generate(ctx context.Context, profileID, period string) (payslip.Payslip, error) {
	parsed, err := commission.ParsePeriod(period)
	if err != nil {
		return payslip.Payslip{}, validator.ValidationErrors{{Field: "period", Message: "period must be YYYY-MM"}}
	}

	existing, err := s.payslipRepo.GetByProfilePeriod(ctx, profileID, parsed.String())
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, payslip.ErrPayslipNotFound) {
		return payslip.Payslip{}, err
	}

	p, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return payslip.Payslip{}, err
	}

	var agentIDs []string
	if p.Role == profile.RoleBranchManager {
		agentIDs, err = s.relationRepo.GetActiveAgentIDs(ctx, p.ID)
		if err != nil {
			return payslip.Payslip{}, fmt.Errorf("failed to resolve linked agents: %w", err)
		}
	}

	totals, err := s.calculator.PeriodTotals(ctx, p, agentIDs, parsed)
	if err != nil {
		return payslip.Payslip{}, err
	}

	created, err := s.payslipRepo.Create(ctx, payslip.Payslip{
		ProfileID:        p.ID,
		Period:           parsed.String(),
		Type:             payslip.PayslipTypeCommission,
		TotalSales:       totals.TotalSales,
		TotalCommission:  totals.TotalCommission,
		TotalWithholding: totals.TotalWithholding,
		NetPayment:       totals.NetPayment,
		Status:           payslip.PayslipStatusPending,
	})
	if err != nil {
		if errors.Is(err, payslip.ErrPayslipAlreadyExists) {
			return s.payslipRepo.GetByProfilePeriod(ctx, profileID, parsed.String())
		}
		return payslip.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}

	s.notificationSvc.Notify(notification.CreateNotificationRequest{
		RecipientID: p.ID,
		Type:        notification.TypePayslipGenerated,
		Title:       "Payslip generated",
		Message:     fmt.Sprintf("Your payslip for %s is ready for review", parsed),
		Data:        map[string]string{"payslip_id": created.ID, "period": parsed.String()},
	})

	return created, nil
}

// GenerateForPeriod generates payslips for every active profile. Individual
// failures are logged and skipped so one broken profile cannot block the
// whole settlement run.
func (s *PayslipServiceImpl) GenerateForPeriod(ctx context.Context, period string) ([]payslip.Payslip, error) {
	if _, err := commission.ParsePeriod(period); err != nil {
		return nil, validator.ValidationErrors{{Field: "period", Message: "period must be YYYY-MM"}}
	}

	profiles, err := s.profileRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active profiles: %w", err)
	}

	var generated []payslip.Payslip
	for _, p := range profiles {
		ps, err := s.Generate(ctx, p.ID, period)
		if err != nil {
			slog.Error("Failed to generate payslip", "profile_id", p.ID, "period", period, "error", err)
			continue
		}
		generated = append(generated, ps)
	}

	return generated, nil
}

func (s *PayslipServiceImpl) Approve(ctx context.Context, adminID, id string) (payslip.Payslip, error) {
	found, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payslip.Payslip{}, err
	}

	if found.Status != payslip.PayslipStatusPending {
		return payslip.Payslip{}, payslip.ErrPayslipAlreadyProcessed
	}

	if err := s.payslipRepo.MarkApproved(ctx, id, adminID); err != nil {
		return payslip.Payslip{}, err
	}

	s.notificationSvc.Audit(notification.AuditRecord{
		ActorID:  adminID,
		Action:   "payslip_approved",
		EntityID: id,
		Details:  map[string]string{"profile_id": found.ProfileID, "period": found.Period},
	})

	return s.payslipRepo.GetByID(ctx, id)
}

// RenderAndSend renders the payslip document and moves APPROVED to SENT.
func (s *PayslipServiceImpl) RenderAndSend(ctx context.Context, id string) (payslip.Payslip, error) {
	sent, _, err := s.renderAndSend(ctx, id)
	return sent, err
}

// renderAndSend reports whether this call performed the APPROVED-to-SENT
// transition, so DispatchApproved does not count payslips a concurrent
// dispatcher already sent.
func (s *PayslipServiceImpl) renderAndSend(ctx context.Context, id string) (payslip.Payslip, bool, error) {
	found, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payslip.Payslip{}, false, err
	}

	// Already dispatched: skip, never re-send.
	if found.Status == payslip.PayslipStatusSent {
		return found, false, nil
	}
	if found.Status != payslip.PayslipStatusApproved {
		return payslip.Payslip{}, false, payslip.ErrPayslipNotApproved
	}

	p, err := s.profileRepo.GetByID(ctx, found.ProfileID)
	if err != nil {
		return payslip.Payslip{}, false, err
	}

	// A render failure blocks the transition: the payslip stays APPROVED and
	// the next dispatcher run retries it.
	pdfURL, err := s.renderer.RenderPayslip(ctx, docrender.RenderRequest{
		PayslipID:        found.ID,
		ProfileID:        p.ID,
		ProfileName:      p.Name,
		Period:           found.Period,
		TotalSales:       found.TotalSales.String(),
		TotalCommission:  found.TotalCommission.String(),
		TotalWithholding: found.TotalWithholding.String(),
		NetPayment:       found.NetPayment.String(),
	})
	if err != nil {
		return payslip.Payslip{}, false, err
	}

	if err := s.payslipRepo.MarkSent(ctx, id, pdfURL); err != nil {
		if errors.Is(err, payslip.ErrPayslipAlreadyProcessed) {
			// A concurrent dispatcher won the race; treat as already sent.
			winner, err := s.payslipRepo.GetByID(ctx, id)
			return winner, false, err
		}
		return payslip.Payslip{}, false, err
	}

	s.notificationSvc.Notify(notification.CreateNotificationRequest{
		RecipientID: found.ProfileID,
		Type:        notification.TypePayslipSent,
		Title:       "Payslip sent",
		Message:     fmt.Sprintf("Your payslip for %s has been issued", found.Period),
		Data:        map[string]string{"payslip_id": found.ID, "pdf_url": pdfURL},
	})

	dispatched, err := s.payslipRepo.GetByID(ctx, id)
	return dispatched, true, err
}

// DispatchApproved sends every APPROVED payslip. Safe to re-invoke: payslips
// already SENT are skipped and failed renders stay APPROVED for next time.
func (s *PayslipServiceImpl) DispatchApproved(ctx context.Context) (int, error) {
	approved, err := s.payslipRepo.ListByStatus(ctx, payslip.PayslipStatusApproved)
	if err != nil {
		return 0, fmt.Errorf("failed to list approved payslips: %w", err)
	}

	sent := 0
	for _, p := range approved {
		_, dispatched, err := s.renderAndSend(ctx, p.ID)
		if err != nil {
			slog.Error("Failed to dispatch payslip", "payslip_id", p.ID, "error", err)
			continue
		}
		if dispatched {
			sent++
		}
	}

	return sent, nil
}

func (s *PayslipServiceImpl) GetByID(ctx context.Context, actor auth.Actor, id string) (payslip.Payslip, error) {
	found, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payslip.Payslip{}, err
	}

	if !actor.IsAdmin && found.ProfileID != actor.ProfileID {
		return payslip.Payslip{}, profile.ErrNotInScope
	}

	return found, nil
}

func (s *PayslipServiceImpl) ListForActor(ctx context.Context, actor auth.Actor) ([]payslip.Payslip, error) {
	return s.payslipRepo.ListByProfileID(ctx, actor.ProfileID)
}

func (s *PayslipServiceImpl) ListByStatus(ctx context.Context, status payslip.PayslipStatus) ([]payslip.Payslip, error) {
	return s.payslipRepo.ListByStatus(ctx, status)
}
