package sale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
	"github.com/cruisehub/reseller-backend-go/internal/domain/lead"
	"github.com/cruisehub/reseller-backend-go/internal/domain/notification"
	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/domain/sale"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/database"
	"github.com/cruisehub/reseller-backend-go/internal/service/scope"
	"github.com/shopspring/decimal"
)

type SaleServiceImpl struct {
	txm             database.TxManager
	saleRepo        sale.SaleRepository
	leadRepo        lead.LeadRepository
	scopeResolver   *scope.Resolver
	notificationSvc notification.Service
}

func NewSaleService(
	txm database.TxManager,
	saleRepo sale.SaleRepository,
	leadRepo lead.LeadRepository,
	scopeResolver *scope.Resolver,
	notificationSvc notification.Service,
) sale.SaleService {
	return &SaleServiceImpl{
		txm:             txm,
		saleRepo:        saleRepo,
		leadRepo:        leadRepo,
		scopeResolver:   scopeResolver,
		notificationSvc: notificationSvc,
	}
}

func (s *SaleServiceImpl) Create(ctx context.Context, actor auth.Actor, req sale.CreateSaleRequest) (sale.Sale, error) {
	if err := req.Validate(); err != nil {
		return sale.Sale{}, err
	}

	l, err := s.leadRepo.GetByID(ctx, req.LeadID)
	if err != nil {
		return sale.Sale{}, fmt.Errorf("failed to get lead: %w", err)
	}

	actorScope, err := s.scopeResolver.ScopeFor(ctx, actor.ProfileID)
	if err != nil {
		return sale.Sale{}, err
	}

	// Ownership is denormalized from the lead at creation time. House leads
	// without an owner are claimed by the creating actor.
	agentID := l.AgentID
	managerID := l.ManagerID
	if agentID == nil && managerID == nil {
		if actorScope.Role == profile.RoleBranchManager {
			managerID = &actor.ProfileID
		} else {
			agentID = &actor.ProfileID
		}
	}

	if !actor.IsAdmin && !leadOwnedBy(l, actorScope) && (agentID == nil || *agentID != actor.ProfileID) && (managerID == nil || *managerID != actor.ProfileID) {
		return sale.Sale{}, profile.ErrNotInScope
	}

	amount, _ := decimal.NewFromString(req.Amount)
	saleDate, _ := time.Parse("2006-01-02", req.SaleDate)

	created, err := s.saleRepo.Create(ctx, sale.Sale{
		LeadID:            l.ID,
		AgentID:           agentID,
		ManagerID:         managerID,
		Amount:            amount,
		SaleDate:          saleDate,
		Status:            sale.SaleStatusPending,
		CardPaymentStatus: sale.PaymentSubStatusPending,
		ReceiptStatus:     sale.PaymentSubStatusPending,
		Metadata: []sale.AuditEntry{{
			Action:    "sale_created",
			ActorID:   actor.ProfileID,
			Details:   map[string]string{"lead_id": l.ID, "amount": amount.String()},
			Timestamp: time.Now(),
		}},
	})
	if err != nil {
		return sale.Sale{}, fmt.Errorf("failed to create sale: %w", err)
	}

	s.notificationSvc.Audit(notification.AuditRecord{
		ActorID:  actor.ProfileID,
		Action:   "sale_created",
		EntityID: created.ID,
		Details:  map[string]string{"lead_id": l.ID, "amount": amount.String()},
	})

	return created, nil
}

func (s *SaleServiceImpl) GetByID(ctx context.Context, actor auth.Actor, id string) (sale.Sale, error) {
	found, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.Sale{}, err
	}

	if !actor.IsAdmin {
		actorScope, err := s.scopeResolver.ScopeFor(ctx, actor.ProfileID)
		if err != nil {
			return sale.Sale{}, err
		}
		if !actorScope.Covers(found) {
			return sale.Sale{}, profile.ErrNotInScope
		}
	}

	return found, nil
}

func (s *SaleServiceImpl) List(ctx context.Context, actor auth.Actor, filter sale.ListFilter) ([]sale.Sale, int64, error) {
	actorScope, err := s.scopeResolver.ScopeFor(ctx, actor.ProfileID)
	if err != nil {
		return nil, 0, err
	}

	return s.saleRepo.ListByProfileIDs(ctx, actorScope.ProfileIDs(), filter)
}

// Submit advances a PENDING sale (or one re-opened by rejection) into the
// approval queue.
func (s *SaleServiceImpl) Submit(ctx context.Context, actor auth.Actor, id string) (sale.Sale, error) {
	found, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.Sale{}, err
	}

	actorScope, err := s.scopeResolver.ScopeFor(ctx, actor.ProfileID)
	if err != nil {
		return sale.Sale{}, err
	}
	if !actorScope.Covers(found) {
		return sale.Sale{}, profile.ErrNotInScope
	}

	if found.Status != sale.SaleStatusPending && found.Status != sale.SaleStatusRejected {
		return sale.Sale{}, sale.ErrInvalidStateTransition
	}

	now := time.Now()
	if err := s.saleRepo.MarkSubmitted(ctx, id, actor.ProfileID, now); err != nil {
		return sale.Sale{}, err
	}

	s.appendAudit(ctx, id, actor.ProfileID, "sale_submitted", nil)

	return s.saleRepo.GetByID(ctx, id)
}

// CancelSubmission is the compensating action for Submit: only the original
// submitter may pull a sale back out of the approval queue.
func (s *SaleServiceImpl) CancelSubmission(ctx context.Context, actor auth.Actor, id string) (sale.Sale, error) {
	found, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.Sale{}, err
	}

	if found.Status != sale.SaleStatusPendingApproval {
		return sale.Sale{}, sale.ErrInvalidStateTransition
	}
	if found.SubmittedByID == nil || *found.SubmittedByID != actor.ProfileID {
		return sale.Sale{}, sale.ErrNotSubmitter
	}

	if err := s.saleRepo.ClearSubmission(ctx, id); err != nil {
		return sale.Sale{}, err
	}

	s.appendAudit(ctx, id, actor.ProfileID, "submission_cancelled", nil)

	return s.saleRepo.GetByID(ctx, id)
}

// Approve confirms a submitted sale. The conditional status update is the
// concurrency guard: a second approve on the same sale fails with
// ErrSaleAlreadyProcessed instead of double-emitting side effects.
func (s *SaleServiceImpl) Approve(ctx context.Context, adminID string, id string) (sale.Sale, error) {
	found, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.Sale{}, err
	}

	switch found.Status {
	case sale.SaleStatusPendingApproval:
	case sale.SaleStatusApproved, sale.SaleStatusRefunded:
		return sale.Sale{}, sale.ErrSaleAlreadyProcessed
	default:
		return sale.Sale{}, sale.ErrInvalidStateTransition
	}

	now := time.Now()
	if err := s.saleRepo.MarkApproved(ctx, id, adminID, now); err != nil {
		if errors.Is(err, sale.ErrInvalidStateTransition) {
			// Lost the race against a concurrent approve.
			return sale.Sale{}, sale.ErrSaleAlreadyProcessed
		}
		return sale.Sale{}, err
	}

	s.appendAudit(ctx, id, adminID, "sale_approved", map[string]string{
		"amount": found.Amount.String(),
	})

	// The sale is now commission-eligible for its sale-date period.
	if recipient := ownerRecipient(found); recipient != "" {
		s.notificationSvc.Notify(notification.CreateNotificationRequest{
			RecipientID: recipient,
			Type:        notification.TypeSaleApproved,
			Title:       "Sale approved",
			Message:     fmt.Sprintf("Sale for %s was approved", found.Amount.StringFixed(0)),
			Data:        map[string]string{"sale_id": found.ID},
		})
	}

	// Conversion marking is best-effort: the approval itself is already
	// committed and must not be rolled back.
	if err := s.leadRepo.UpdateStatus(ctx, found.LeadID, lead.LeadStatusConverted); err != nil {
		slog.Warn("Failed to mark lead converted after approval",
			"sale_id", id, "lead_id", found.LeadID, "error", err)
	}

	return s.saleRepo.GetByID(ctx, id)
}

// Reject refuses a submitted sale and clears the submission fields, which
// re-opens the sale for correction and resubmission.
func (s *SaleServiceImpl) Reject(ctx context.Context, adminID string, id string, reason string) (sale.Sale, error) {
	if err := (sale.RejectSaleRequest{Reason: reason}).Validate(); err != nil {
		return sale.Sale{}, err
	}

	found, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.Sale{}, err
	}

	switch found.Status {
	case sale.SaleStatusPendingApproval:
	case sale.SaleStatusRejected:
		return sale.Sale{}, sale.ErrSaleAlreadyProcessed
	default:
		return sale.Sale{}, sale.ErrInvalidStateTransition
	}

	submitter := found.SubmittedByID

	now := time.Now()
	if err := s.saleRepo.MarkRejected(ctx, id, adminID, reason, now); err != nil {
		if errors.Is(err, sale.ErrInvalidStateTransition) {
			return sale.Sale{}, sale.ErrSaleAlreadyProcessed
		}
		return sale.Sale{}, err
	}

	s.appendAudit(ctx, id, adminID, "sale_rejected", map[string]string{"reason": reason})

	if submitter != nil {
		s.notificationSvc.Notify(notification.CreateNotificationRequest{
			RecipientID: *submitter,
			Type:        notification.TypeSaleRejected,
			Title:       "Sale rejected",
			Message:     reason,
			Data:        map[string]string{"sale_id": found.ID},
		})
	}

	return s.saleRepo.GetByID(ctx, id)
}

// Refund reverses an approved sale. The sale-status write and the linked
// lead-status write commit together or not at all; the refunded amount drops
// out of every future commission aggregation for its period.
func (s *SaleServiceImpl) Refund(ctx context.Context, adminID string, id string, reason string) (sale.Sale, error) {
	if err := (sale.RefundSaleRequest{Reason: reason}).Validate(); err != nil {
		return sale.Sale{}, err
	}

	found, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.Sale{}, err
	}

	switch found.Status {
	case sale.SaleStatusApproved:
	case sale.SaleStatusRefunded:
		return sale.Sale{}, sale.ErrSaleAlreadyProcessed
	default:
		return sale.Sale{}, sale.ErrInvalidStateTransition
	}

	now := time.Now()
	err = s.txm.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.saleRepo.MarkRefunded(txCtx, id, adminID, reason, now); err != nil {
			if errors.Is(err, sale.ErrInvalidStateTransition) {
				return sale.ErrSaleAlreadyProcessed
			}
			return err
		}

		if err := s.leadRepo.UpdateStatus(txCtx, found.LeadID, lead.LeadStatusRefunded); err != nil {
			return fmt.Errorf("%w: %v", sale.ErrRefundLeadMismatch, err)
		}

		return s.saleRepo.AppendMetadata(txCtx, id, sale.AuditEntry{
			Action:  "sale_refunded",
			ActorID: adminID,
			Details: map[string]string{
				"reason":  reason,
				"amount":  found.Amount.String(),
				"lead_id": found.LeadID,
			},
			Timestamp: now,
		})
	})
	if err != nil {
		return sale.Sale{}, err
	}

	s.notificationSvc.Audit(notification.AuditRecord{
		ActorID:  adminID,
		Action:   "sale_refunded",
		EntityID: id,
		Details: map[string]string{
			"reason":  reason,
			"amount":  found.Amount.String(),
			"lead_id": found.LeadID,
		},
	})

	if recipient := ownerRecipient(found); recipient != "" {
		s.notificationSvc.Notify(notification.CreateNotificationRequest{
			RecipientID: recipient,
			Type:        notification.TypeSaleRefunded,
			Title:       "Sale refunded",
			Message:     reason,
			Data:        map[string]string{"sale_id": found.ID},
		})
	}

	return s.saleRepo.GetByID(ctx, id)
}

// MarkCardPaymentCompleted completes the card-settlement sub-workflow. It is
// idempotent: a sale already marked completed is returned unchanged, without
// a duplicate audit entry.
func (s *SaleServiceImpl) MarkCardPaymentCompleted(ctx context.Context, adminID string, id string) (sale.Sale, error) {
	found, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.Sale{}, err
	}

	if found.CardPaymentStatus == sale.PaymentSubStatusCompleted {
		return found, nil
	}

	if err := s.saleRepo.UpdateCardPaymentStatus(ctx, id, sale.PaymentSubStatusCompleted); err != nil {
		return sale.Sale{}, err
	}

	s.appendAudit(ctx, id, adminID, "card_payment_completed", nil)

	return s.saleRepo.GetByID(ctx, id)
}

// MarkReceiptIssued completes the receipt sub-workflow; idempotent like
// MarkCardPaymentCompleted.
func (s *SaleServiceImpl) MarkReceiptIssued(ctx context.Context, adminID string, id string) (sale.Sale, error) {
	found, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return sale.Sale{}, err
	}

	if found.ReceiptStatus == sale.PaymentSubStatusCompleted {
		return found, nil
	}

	if err := s.saleRepo.UpdateReceiptStatus(ctx, id, sale.PaymentSubStatusCompleted); err != nil {
		return sale.Sale{}, err
	}

	s.appendAudit(ctx, id, adminID, "receipt_issued", nil)

	return s.saleRepo.GetByID(ctx, id)
}

// appendAudit records the action on the sale's own trail and mirrors it to
// the audit sink. Both are best-effort relative to the committed transition.
func (s *SaleServiceImpl) appendAudit(ctx context.Context, saleID, actorID, action string, details map[string]string) {
	entry := sale.AuditEntry{
		Action:    action,
		ActorID:   actorID,
		Details:   details,
		Timestamp: time.Now(),
	}
	if err := s.saleRepo.AppendMetadata(ctx, saleID, entry); err != nil {
		slog.Warn("Failed to append sale metadata", "sale_id", saleID, "action", action, "error", err)
	}

	s.notificationSvc.Audit(notification.AuditRecord{
		ActorID:  actorID,
		Action:   action,
		EntityID: saleID,
		Details:  details,
	})
}

func ownerRecipient(s sale.Sale) string {
	if s.AgentID != nil {
		return *s.AgentID
	}
	if s.ManagerID != nil {
		return *s.ManagerID
	}
	return ""
}

func leadOwnedBy(l lead.Lead, actorScope scope.Scope) bool {
	for _, id := range actorScope.ProfileIDs() {
		if l.AgentID != nil && *l.AgentID == id {
			return true
		}
		if l.ManagerID != nil && *l.ManagerID == id {
			return true
		}
	}
	return false
}
