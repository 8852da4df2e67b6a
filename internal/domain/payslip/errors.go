package payslip

import "errors"

var (
	ErrPayslipNotFound         = errors.New("payslip not found")
	ErrPayslipAlreadyExists    = errors.New("payslip already exists for this profile and period")
	ErrPayslipAlreadyProcessed = errors.New("payslip has already been processed")
	ErrPayslipNotApproved      = errors.New("payslip is not approved for dispatch")
)
