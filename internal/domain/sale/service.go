package sale

import (
	"context"

	"github.com/cruisehub/reseller-backend-go/internal/domain/auth"
)

// SaleService is the confirmation and approval engine over the sale ledger.
type SaleService interface {
	Create(ctx context.Context, actor auth.Actor, req CreateSaleRequest) (Sale, error)
	GetByID(ctx context.Context, actor auth.Actor, id string) (Sale, error)
	List(ctx context.Context, actor auth.Actor, filter ListFilter) ([]Sale, int64, error)

	Submit(ctx context.Context, actor auth.Actor, id string) (Sale, error)
	CancelSubmission(ctx context.Context, actor auth.Actor, id string) (Sale, error)
	Approve(ctx context.Context, adminID string, id string) (Sale, error)
	Reject(ctx context.Context, adminID string, id string, reason string) (Sale, error)
	Refund(ctx context.Context, adminID string, id string, reason string) (Sale, error)

	MarkCardPaymentCompleted(ctx context.Context, adminID string, id string) (Sale, error)
	MarkReceiptIssued(ctx context.Context, adminID string, id string) (Sale, error)
}
