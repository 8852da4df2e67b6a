package profile

import (
	"time"
)

// Role represents the reseller role in the affiliate hierarchy
type Role string

const (
	RoleAgent         Role = "AGENT"
	RoleBranchManager Role = "BRANCH_MANAGER"
)

// ProfileStatus represents the lifecycle status of a reseller profile
type ProfileStatus string

const (
	ProfileStatusActive   ProfileStatus = "ACTIVE"
	ProfileStatusInactive ProfileStatus = "INACTIVE"
)

// RelationStatus represents the lifecycle status of a manager-agent relation
type RelationStatus string

const (
	RelationStatusActive   RelationStatus = "ACTIVE"
	RelationStatusInactive RelationStatus = "INACTIVE"
)

// Profile represents a reseller (agent or branch manager) with payout details
type Profile struct {
	ID            string
	Name          string
	Role          Role
	Status        ProfileStatus
	Phone         *string
	BankName      *string
	BankAccount   *string
	AccountHolder *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive reports whether the profile can currently act or receive payouts
func (p Profile) IsActive() bool {
	return p.Status == ProfileStatusActive
}

// Relation is a directed manager -> agent supervision link.
// An agent has at most one ACTIVE relation at a time.
type Relation struct {
	ID        string
	ManagerID string
	AgentID   string
	Status    RelationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
