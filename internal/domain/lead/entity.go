package lead

import "time"

// LeadStatus represents the coarse lifecycle status of a customer lead
type LeadStatus string

const (
	LeadStatusOpen      LeadStatus = "OPEN"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusRefunded  LeadStatus = "REFUNDED"
)

// Lead is a tracked prospective or converted customer record.
// AgentID and ManagerID are both nullable: "house" leads may be unowned.
type Lead struct {
	ID           string
	CustomerName string
	AgentID      *string
	ManagerID    *string
	Status       LeadStatus
	Source       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
