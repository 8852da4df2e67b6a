package profile

import "context"

// ProfileRepository defines data access methods for reseller profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p Profile) (Profile, error)
	GetByID(ctx context.Context, id string) (Profile, error)
	ListByIDs(ctx context.Context, ids []string) ([]Profile, error)
	ListActive(ctx context.Context) ([]Profile, error)
	UpdateStatus(ctx context.Context, id string, status ProfileStatus) error

	// Delete removes a profile. It fails with ErrProfileReferenced when any
	// sale references the profile; callers should deactivate instead.
	Delete(ctx context.Context, id string) error
}

// RelationRepository defines data access methods for manager-agent relations.
type RelationRepository interface {
	Create(ctx context.Context, rel Relation) (Relation, error)
	GetActiveAgentIDs(ctx context.Context, managerID string) ([]string, error)
	GetActiveByAgentID(ctx context.Context, agentID string) (Relation, error)
	UpdateStatus(ctx context.Context, id string, status RelationStatus) error
}
