package sale

import "errors"

var (
	ErrSaleNotFound           = errors.New("sale not found")
	ErrInvalidStateTransition = errors.New("sale status does not permit this operation")
	ErrSaleAlreadyProcessed   = errors.New("sale has already been processed")
	ErrNotSubmitter           = errors.New("only the original submitter can cancel a submission")
	ErrRefundLeadMismatch     = errors.New("refund could not update the linked lead")
)
