package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cruisehub/reseller-backend-go/internal/domain/sale"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type saleRepositoryImpl struct {
	db *database.DB
}

func NewSaleRepository(db *database.DB) sale.SaleRepository {
	return &saleRepositoryImpl{db: db}
}

const saleColumns = `
	id, lead_id, agent_id, manager_id, amount, sale_date,
	status, card_payment_status, receipt_status,
	submitted_at, submitted_by_id,
	approved_at, approved_by_id,
	rejected_at, rejected_by_id, rejection_reason,
	refunded_at, refunded_by_id, refund_reason,
	metadata, created_at, updated_at
`

func scanSale(row pgx.Row) (sale.Sale, error) {
	var s sale.Sale
	err := row.Scan(
		&s.ID,
		&s.LeadID,
		&s.AgentID,
		&s.ManagerID,
		&s.Amount,
		&s.SaleDate,
		&s.Status,
		&s.CardPaymentStatus,
		&s.ReceiptStatus,
		&s.SubmittedAt,
		&s.SubmittedByID,
		&s.ApprovedAt,
		&s.ApprovedByID,
		&s.RejectedAt,
		&s.RejectedByID,
		&s.RejectionReason,
		&s.RefundedAt,
		&s.RefundedByID,
		&s.RefundReason,
		&s.Metadata,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

func (r *saleRepositoryImpl) Create(ctx context.Context, s sale.Sale) (sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	if s.Metadata == nil {
		s.Metadata = []sale.AuditEntry{}
	}

	query := `
		INSERT INTO sales (
			id, lead_id, agent_id, manager_id, amount, sale_date,
			status, card_payment_status, receipt_status, metadata,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.LeadID, s.AgentID, s.ManagerID, s.Amount, s.SaleDate,
		s.Status, s.CardPaymentStatus, s.ReceiptStatus, s.Metadata,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return sale.Sale{}, err
	}

	return s, nil
}

func (r *saleRepositoryImpl) GetByID(ctx context.Context, id string) (sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM sales WHERE id = $1`, saleColumns)

	s, err := scanSale(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sale.Sale{}, sale.ErrSaleNotFound
		}
		return sale.Sale{}, err
	}

	return s, nil
}

func (r *saleRepositoryImpl) ListByProfileIDs(ctx context.Context, profileIDs []string, filter sale.ListFilter) ([]sale.Sale, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := `(agent_id = ANY($1) OR manager_id = ANY($1))`
	args := []interface{}{profileIDs}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(" AND sale_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(" AND sale_date < $%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := fmt.Sprintf(`
		SELECT %s FROM sales
		WHERE %s
		ORDER BY sale_date DESC, created_at DESC
		LIMIT %d OFFSET %d
	`, saleColumns, where, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []sale.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM sales WHERE %s`, where)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

func (r *saleRepositoryImpl) ListApprovedInPeriod(ctx context.Context, profileIDs []string, from, to time.Time) ([]sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM sales
		WHERE (agent_id = ANY($1) OR manager_id = ANY($1))
		  AND status = 'APPROVED'
		  AND sale_date >= $2 AND sale_date < $3
		ORDER BY sale_date
	`, saleColumns)

	rows, err := q.Query(ctx, query, profileIDs, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []sale.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}

	return sales, rows.Err()
}

// MarkSubmitted advances a PENDING (or re-opened REJECTED) sale to
// PENDING_APPROVAL. Resubmission clears any previous rejection.
func (r *saleRepositoryImpl) MarkSubmitted(ctx context.Context, id, actorID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE sales SET
			status = 'PENDING_APPROVAL',
			submitted_at = $2,
			submitted_by_id = $3,
			rejected_at = NULL,
			rejected_by_id = NULL,
			rejection_reason = NULL,
			updated_at = NOW()
		WHERE id = $1 AND status IN ('PENDING', 'REJECTED')
	`, id, at, actorID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return sale.ErrInvalidStateTransition
	}
	return nil
}

func (r *saleRepositoryImpl) ClearSubmission(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE sales SET
			status = 'PENDING',
			submitted_at = NULL,
			submitted_by_id = NULL,
			updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING_APPROVAL'
	`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return sale.ErrInvalidStateTransition
	}
	return nil
}

func (r *saleRepositoryImpl) MarkApproved(ctx context.Context, id, adminID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE sales SET
			status = 'APPROVED',
			approved_at = $2,
			approved_by_id = $3,
			updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING_APPROVAL'
	`, id, at, adminID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return sale.ErrInvalidStateTransition
	}
	return nil
}

// MarkRejected sets REJECTED and clears the submission fields so the sale can
// be resubmitted after correction.
func (r *saleRepositoryImpl) MarkRejected(ctx context.Context, id, adminID, reason string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE sales SET
			status = 'REJECTED',
			rejected_at = $2,
			rejected_by_id = $3,
			rejection_reason = $4,
			submitted_at = NULL,
			submitted_by_id = NULL,
			updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING_APPROVAL'
	`, id, at, adminID, reason)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return sale.ErrInvalidStateTransition
	}
	return nil
}

func (r *saleRepositoryImpl) MarkRefunded(ctx context.Context, id, adminID, reason string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE sales SET
			status = 'REFUNDED',
			refunded_at = $2,
			refunded_by_id = $3,
			refund_reason = $4,
			updated_at = NOW()
		WHERE id = $1 AND status = 'APPROVED'
	`, id, at, adminID, reason)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return sale.ErrInvalidStateTransition
	}
	return nil
}

func (r *saleRepositoryImpl) UpdateCardPaymentStatus(ctx context.Context, id string, status sale.PaymentSubStatus) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE sales SET card_payment_status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return sale.ErrSaleNotFound
	}
	return nil
}

func (r *saleRepositoryImpl) UpdateReceiptStatus(ctx context.Context, id string, status sale.PaymentSubStatus) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE sales SET receipt_status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return sale.ErrSaleNotFound
	}
	return nil
}

// AppendMetadata appends one audit entry to the JSONB array. The concatenation
// runs server-side so concurrent appends never overwrite each other.
func (r *saleRepositoryImpl) AppendMetadata(ctx context.Context, id string, entry sale.AuditEntry) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE sales SET
			metadata = COALESCE(metadata, '[]'::jsonb) || $2::jsonb,
			updated_at = NOW()
		WHERE id = $1
	`, id, []sale.AuditEntry{entry})
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return sale.ErrSaleNotFound
	}
	return nil
}
