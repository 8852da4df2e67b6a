package profile

import (
	"context"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
)

// ProfileService manages reseller identities and the supervision hierarchy.
type ProfileService interface {
	Create(ctx context.Context, adminID string, req CreateProfileRequest) (Profile, error)
	GetByID(ctx context.Context, actor auth.Actor, id string) (Profile, error)

	// ListAgents returns the profiles of the manager's ACTIVE-linked agents.
	// Managers can only list their own agents; admins can list any manager's.
	ListAgents(ctx context.Context, actor auth.Actor, managerID string) ([]Profile, error)

	// Deactivate retires a profile instead of deleting it: profiles referenced
	// by settled sales must stay resolvable for the ledger.
	Deactivate(ctx context.Context, adminID, id string) (Profile, error)

	// Delete removes a profile that no sale references; otherwise it fails
	// with ErrProfileReferenced and the caller should Deactivate.
	Delete(ctx context.Context, adminID, id string) error

	LinkAgent(ctx context.Context, adminID, managerID string, req LinkAgentRequest) (Relation, error)
	UnlinkAgent(ctx context.Context, adminID, agentID string) error
}
