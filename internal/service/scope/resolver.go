package scope

import (
	"context"
	"fmt"

	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/domain/sale"
)

// Scope is the visibility set of one acting profile, computed per request
// from the current ACTIVE relations. It is the single authorization predicate
// shared by the approval engine and the list surfaces, so a mutation can
// never be permitted on a sale the same actor could not see in a list view.
//
// A relation change does not recompute historical sale ownership: visibility
// is always evaluated against the relations active right now.
type Scope struct {
	ProfileID string
	Role      profile.Role
	AgentIDs  []string
}

// ProfileIDs returns every profile whose sales fall inside the scope.
func (s Scope) ProfileIDs() []string {
	ids := make([]string, 0, len(s.AgentIDs)+1)
	ids = append(ids, s.ProfileID)
	ids = append(ids, s.AgentIDs...)
	return ids
}

// Covers reports whether the scope includes the given sale.
func (s Scope) Covers(sl sale.Sale) bool {
	if sl.OwnedBy(s.ProfileID) {
		return true
	}
	if s.Role != profile.RoleBranchManager {
		return false
	}
	for _, agentID := range s.AgentIDs {
		if sl.AgentID != nil && *sl.AgentID == agentID {
			return true
		}
	}
	return false
}

// Resolver computes request scopes from the hierarchy store.
type Resolver struct {
	profileRepo  profile.ProfileRepository
	relationRepo profile.RelationRepository
}

func NewResolver(profileRepo profile.ProfileRepository, relationRepo profile.RelationRepository) *Resolver {
	return &Resolver{
		profileRepo:  profileRepo,
		relationRepo: relationRepo,
	}
}

// ScopeFor resolves the visibility scope of the given profile. Agents see only
// their own sales; branch managers additionally see the sales of every agent
// currently linked through an ACTIVE relation.
func (r *Resolver) ScopeFor(ctx context.Context, profileID string) (Scope, error) {
	p, err := r.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return Scope{}, fmt.Errorf("failed to resolve acting profile: %w", err)
	}

	s := Scope{
		ProfileID: p.ID,
		Role:      p.Role,
	}

	if p.Role == profile.RoleBranchManager {
		agentIDs, err := r.relationRepo.GetActiveAgentIDs(ctx, p.ID)
		if err != nil {
			return Scope{}, fmt.Errorf("failed to resolve linked agents: %w", err)
		}
		s.AgentIDs = agentIDs
	}

	return s, nil
}
