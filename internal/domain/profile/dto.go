package profile

import (
	"github.com/cruisehub/reseller-backend-go/internal/pkg/validator"
)

type CreateProfileRequest struct {
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	Phone         *string `json:"phone"`
	BankName      *string `json:"bank_name"`
	BankAccount   *string `json:"bank_account"`
	AccountHolder *string `json:"account_holder"`
}

func (r CreateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsInSlice(r.Role, []string{string(RoleAgent), string(RoleBranchManager)}) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be AGENT or BRANCH_MANAGER"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LinkAgentRequest struct {
	AgentID string `json:"agent_id"`
}

func (r LinkAgentRequest) Validate() error {
	if validator.IsEmpty(r.AgentID) {
		return validator.ValidationErrors{{Field: "agent_id", Message: "agent_id is required"}}
	}
	return nil
}

type RelationResponse struct {
	ID        string `json:"id"`
	ManagerID string `json:"manager_id"`
	AgentID   string `json:"agent_id"`
	Status    string `json:"status"`
}

func ToRelationResponse(rel Relation) RelationResponse {
	return RelationResponse{
		ID:        rel.ID,
		ManagerID: rel.ManagerID,
		AgentID:   rel.AgentID,
		Status:    string(rel.Status),
	}
}

type ProfileResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	Status        string  `json:"status"`
	Phone         *string `json:"phone,omitempty"`
	BankName      *string `json:"bank_name,omitempty"`
	BankAccount   *string `json:"bank_account,omitempty"`
	AccountHolder *string `json:"account_holder,omitempty"`
}

func ToResponse(p Profile) ProfileResponse {
	return ProfileResponse{
		ID:            p.ID,
		Name:          p.Name,
		Role:          string(p.Role),
		Status:        string(p.Status),
		Phone:         p.Phone,
		BankName:      p.BankName,
		BankAccount:   p.BankAccount,
		AccountHolder: p.AccountHolder,
	}
}

func ToResponses(profiles []Profile) []ProfileResponse {
	result := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, ToResponse(p))
	}
	return result
}
