package profile

import (
	"context"
	"fmt"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
	"github.com/cruisehub/reseller-backend-go/internal/domain/notification"
	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/validator"
)

type ProfileServiceImpl struct {
	profileRepo     profile.ProfileRepository
	relationRepo    profile.RelationRepository
	notificationSvc notification.Service
}

func NewProfileService(
	profileRepo profile.ProfileRepository,
	relationRepo profile.RelationRepository,
	notificationSvc notification.Service,
) profile.ProfileService {
	return &ProfileServiceImpl{
		profileRepo:     profileRepo,
		relationRepo:    relationRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *ProfileServiceImpl) Create(ctx context.Context, adminID string, req profile.CreateProfileRequest) (profile.Profile, error) {
	if err := req.Validate(); err != nil {
		return profile.Profile{}, err
	}

	created, err := s.profileRepo.Create(ctx, profile.Profile{
		Name:          req.Name,
		Role:          profile.Role(req.Role),
		Status:        profile.ProfileStatusActive,
		Phone:         req.Phone,
		BankName:      req.BankName,
		BankAccount:   req.BankAccount,
		AccountHolder: req.AccountHolder,
	})
	if err != nil {
		return profile.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}

	s.notificationSvc.Audit(notification.AuditRecord{
		ActorID:  adminID,
		Action:   "profile_created",
		EntityID: created.ID,
		Details:  map[string]string{"role": string(created.Role)},
	})

	return created, nil
}

func (s *ProfileServiceImpl) GetByID(ctx context.Context, actor auth.Actor, id string) (profile.Profile, error) {
	found, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return profile.Profile{}, err
	}

	if actor.IsAdmin || found.ID == actor.ProfileID {
		return found, nil
	}

	// Managers may view their ACTIVE-linked agents.
	rel, err := s.relationRepo.GetActiveByAgentID(ctx, found.ID)
	if err != nil || rel.ManagerID != actor.ProfileID {
		return profile.Profile{}, profile.ErrNotInScope
	}

	return found, nil
}

func (s *ProfileServiceImpl) ListAgents(ctx context.Context, actor auth.Actor, managerID string) ([]profile.Profile, error) {
	if !actor.IsAdmin && actor.ProfileID != managerID {
		return nil, profile.ErrNotInScope
	}

	agentIDs, err := s.relationRepo.GetActiveAgentIDs(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve linked agents: %w", err)
	}

	return s.profileRepo.ListByIDs(ctx, agentIDs)
}

// Deactivate retires a profile. Deletion is never attempted: profiles stay
// resolvable so settled sales and payslips keep a valid owner.
func (s *ProfileServiceImpl) Deactivate(ctx context.Context, adminID, id string) (profile.Profile, error) {
	found, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return profile.Profile{}, err
	}

	if found.Status == profile.ProfileStatusInactive {
		return found, nil
	}

	if err := s.profileRepo.UpdateStatus(ctx, id, profile.ProfileStatusInactive); err != nil {
		return profile.Profile{}, err
	}

	s.notificationSvc.Audit(notification.AuditRecord{
		ActorID:  adminID,
		Action:   "profile_deactivated",
		EntityID: id,
	})

	found.Status = profile.ProfileStatusInactive
	return found, nil
}

func (s *ProfileServiceImpl) Delete(ctx context.Context, adminID, id string) error {
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.notificationSvc.Audit(notification.AuditRecord{
		ActorID:  adminID,
		Action:   "profile_deleted",
		EntityID: id,
	})

	return nil
}

func (s *ProfileServiceImpl) LinkAgent(ctx context.Context, adminID, managerID string, req profile.LinkAgentRequest) (profile.Relation, error) {
	if err := req.Validate(); err != nil {
		return profile.Relation{}, err
	}

	manager, err := s.profileRepo.GetByID(ctx, managerID)
	if err != nil {
		return profile.Relation{}, err
	}
	if manager.Role != profile.RoleBranchManager {
		return profile.Relation{}, validator.ValidationErrors{{Field: "manager_id", Message: "profile is not a branch manager"}}
	}

	agent, err := s.profileRepo.GetByID(ctx, req.AgentID)
	if err != nil {
		return profile.Relation{}, err
	}
	if agent.Role != profile.RoleAgent {
		return profile.Relation{}, validator.ValidationErrors{{Field: "agent_id", Message: "profile is not an agent"}}
	}
	if !agent.IsActive() {
		return profile.Relation{}, profile.ErrProfileInactive
	}

	// The partial unique index on (agent_id) WHERE status = 'ACTIVE' is the
	// real guard; Create maps its violation to ErrRelationAlreadyActive.
	created, err := s.relationRepo.Create(ctx, profile.Relation{
		ManagerID: managerID,
		AgentID:   req.AgentID,
		Status:    profile.RelationStatusActive,
	})
	if err != nil {
		return profile.Relation{}, err
	}

	s.notificationSvc.Audit(notification.AuditRecord{
		ActorID:  adminID,
		Action:   "relation_linked",
		EntityID: created.ID,
		Details:  map[string]string{"manager_id": managerID, "agent_id": req.AgentID},
	})

	return created, nil
}

func (s *ProfileServiceImpl) UnlinkAgent(ctx context.Context, adminID, agentID string) error {
	rel, err := s.relationRepo.GetActiveByAgentID(ctx, agentID)
	if err != nil {
		return err
	}

	if err := s.relationRepo.UpdateStatus(ctx, rel.ID, profile.RelationStatusInactive); err != nil {
		return err
	}

	s.notificationSvc.Audit(notification.AuditRecord{
		ActorID:  adminID,
		Action:   "relation_unlinked",
		EntityID: rel.ID,
		Details:  map[string]string{"manager_id": rel.ManagerID, "agent_id": agentID},
	})

	return nil
}
