package scope

import (
	"context"
	"testing"

	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/domain/sale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileRepo struct {
	profiles map[string]profile.Profile
}

func (r *fakeProfileRepo) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	r.profiles[p.ID] = p
	return p, nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) ListByIDs(ctx context.Context, ids []string) ([]profile.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepo) ListActive(ctx context.Context) ([]profile.Profile, error) {
	return nil, nil
}

func (r *fakeProfileRepo) UpdateStatus(ctx context.Context, id string, status profile.ProfileStatus) error {
	return nil
}

func (r *fakeProfileRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeRelationRepo struct {
	relations []profile.Relation
}

func (r *fakeRelationRepo) Create(ctx context.Context, rel profile.Relation) (profile.Relation, error) {
	r.relations = append(r.relations, rel)
	return rel, nil
}

func (r *fakeRelationRepo) GetActiveAgentIDs(ctx context.Context, managerID string) ([]string, error) {
	var ids []string
	for _, rel := range r.relations {
		if rel.ManagerID == managerID && rel.Status == profile.RelationStatusActive {
			ids = append(ids, rel.AgentID)
		}
	}
	return ids, nil
}

func (r *fakeRelationRepo) GetActiveByAgentID(ctx context.Context, agentID string) (profile.Relation, error) {
	return profile.Relation{}, profile.ErrRelationNotFound
}

func (r *fakeRelationRepo) UpdateStatus(ctx context.Context, id string, status profile.RelationStatus) error {
	return nil
}

func newTestResolver() *Resolver {
	profileRepo := &fakeProfileRepo{profiles: map[string]profile.Profile{
		"agent-1":   {ID: "agent-1", Role: profile.RoleAgent, Status: profile.ProfileStatusActive},
		"agent-2":   {ID: "agent-2", Role: profile.RoleAgent, Status: profile.ProfileStatusActive},
		"manager-1": {ID: "manager-1", Role: profile.RoleBranchManager, Status: profile.ProfileStatusActive},
	}}
	relationRepo := &fakeRelationRepo{relations: []profile.Relation{
		{ID: "rel-1", ManagerID: "manager-1", AgentID: "agent-1", Status: profile.RelationStatusActive},
		{ID: "rel-2", ManagerID: "manager-1", AgentID: "agent-2", Status: profile.RelationStatusInactive},
	}}
	return NewResolver(profileRepo, relationRepo)
}

func saleOwnedByAgent(agentID string) sale.Sale {
	return sale.Sale{ID: "sale-1", AgentID: &agentID}
}

func TestResolver_AgentSeesOnlyItself(t *testing.T) {
	resolver := newTestResolver()

	s, err := resolver.ScopeFor(context.Background(), "agent-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"agent-1"}, s.ProfileIDs())
	assert.True(t, s.Covers(saleOwnedByAgent("agent-1")))
	assert.False(t, s.Covers(saleOwnedByAgent("agent-2")))
}

func TestResolver_ManagerSeesActiveAgents(t *testing.T) {
	resolver := newTestResolver()

	s, err := resolver.ScopeFor(context.Background(), "manager-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"manager-1", "agent-1"}, s.ProfileIDs())
	assert.True(t, s.Covers(saleOwnedByAgent("agent-1")))
}

func TestResolver_InactiveRelationExcluded(t *testing.T) {
	resolver := newTestResolver()

	s, err := resolver.ScopeFor(context.Background(), "manager-1")
	require.NoError(t, err)

	// agent-2's relation is INACTIVE, so its sales fall outside the scope.
	assert.False(t, s.Covers(saleOwnedByAgent("agent-2")))
	assert.NotContains(t, s.ProfileIDs(), "agent-2")
}

func TestResolver_ManagerCoversOwnSales(t *testing.T) {
	resolver := newTestResolver()

	s, err := resolver.ScopeFor(context.Background(), "manager-1")
	require.NoError(t, err)

	managerID := "manager-1"
	assert.True(t, s.Covers(sale.Sale{ID: "sale-2", ManagerID: &managerID}))
}

func TestResolver_UnknownProfile(t *testing.T) {
	resolver := newTestResolver()

	_, err := resolver.ScopeFor(context.Background(), "ghost")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
}

func TestScope_AgentNeverCoversOthersEvenWithAgentIDs(t *testing.T) {
	// A stale scope with agent IDs but an AGENT role must not grant access.
	s := Scope{ProfileID: "agent-1", Role: profile.RoleAgent, AgentIDs: []string{"agent-2"}}
	assert.False(t, s.Covers(saleOwnedByAgent("agent-2")))
}
