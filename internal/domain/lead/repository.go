package lead

import "context"

// LeadRepository defines data access methods for leads. The settlement core
// only mutates lead status; creation belongs to the upstream CRM surface.
type LeadRepository interface {
	Create(ctx context.Context, l Lead) (Lead, error)
	GetByID(ctx context.Context, id string) (Lead, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus) error
}
