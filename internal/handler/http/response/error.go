package response

import (
	"errors"
	"net/http"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
	"github.com/cruisehub/reseller-backend-go/internal/domain/commission"
	"github.com/cruisehub/reseller-backend-go/internal/domain/lead"
	"github.com/cruisehub/reseller-backend-go/internal/domain/payslip"
	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/domain/sale"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/docrender"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Profile domain errors
	case errors.Is(err, profile.ErrProfileNotFound):
		NotFound(w, "Profile not found")
	case errors.Is(err, profile.ErrProfileInactive):
		Conflict(w, "Profile is inactive")
	case errors.Is(err, profile.ErrProfileReferenced):
		Conflict(w, "Profile is referenced by settled sales")
	case errors.Is(err, profile.ErrRelationNotFound):
		NotFound(w, "Relation not found")
	case errors.Is(err, profile.ErrRelationAlreadyActive):
		Conflict(w, "Agent already has an active relation")
	case errors.Is(err, profile.ErrNotInScope):
		Forbidden(w, "Resource is outside your scope")

	// Lead domain errors
	case errors.Is(err, lead.ErrLeadNotFound):
		NotFound(w, "Lead not found")

	// Sale domain errors
	case errors.Is(err, sale.ErrSaleNotFound):
		NotFound(w, "Sale not found")
	case errors.Is(err, sale.ErrSaleAlreadyProcessed):
		Conflict(w, "Sale already processed")
	case errors.Is(err, sale.ErrInvalidStateTransition):
		Conflict(w, "Sale is not in a valid state for this operation")
	case errors.Is(err, sale.ErrNotSubmitter):
		Forbidden(w, "Only the submitter can cancel this submission")
	case errors.Is(err, sale.ErrRefundLeadMismatch):
		Conflict(w, "Sale and lead refund state are inconsistent")

	// Commission / payslip domain errors
	case errors.Is(err, commission.ErrInvalidPeriod):
		BadRequest(w, "Period must be formatted as YYYY-MM", nil)
	case errors.Is(err, payslip.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payslip.ErrPayslipAlreadyExists):
		Conflict(w, "Payslip already exists for this profile and period")
	case errors.Is(err, payslip.ErrPayslipAlreadyProcessed):
		Conflict(w, "Payslip already processed")
	case errors.Is(err, payslip.ErrPayslipNotApproved):
		Conflict(w, "Payslip is not approved for dispatch")

	// External collaborators
	case errors.Is(err, docrender.ErrRenderFailed):
		BadGateway(w, "Document render service failed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
