package postgresql

import (
	"context"
	"errors"

	"github.com/cruisehub/reseller-backend-go/internal/domain/payslip"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type payslipRepositoryImpl struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payslip.PayslipRepository {
	return &payslipRepositoryImpl{db: db}
}

const payslipColumns = `
	id, profile_id, period, type,
	total_sales, total_commission, total_withholding, net_payment,
	status, approved_at, approved_by, sent_at, pdf_url,
	created_at, updated_at
`

func scanPayslip(row pgx.Row) (payslip.Payslip, error) {
	var p payslip.Payslip
	err := row.Scan(
		&p.ID,
		&p.ProfileID,
		&p.Period,
		&p.Type,
		&p.TotalSales,
		&p.TotalCommission,
		&p.TotalWithholding,
		&p.NetPayment,
		&p.Status,
		&p.ApprovedAt,
		&p.ApprovedBy,
		&p.SentAt,
		&p.PdfURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *payslipRepositoryImpl) Create(ctx context.Context, p payslip.Payslip) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	// UNIQUE (profile_id, period) makes generation idempotent: the loser of a
	// concurrent generate gets 23505 and re-reads the winner's row.
	query := `
		INSERT INTO payslips (
			id, profile_id, period, type,
			total_sales, total_commission, total_withholding, net_payment,
			status, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.ProfileID, p.Period, p.Type,
		p.TotalSales, p.TotalCommission, p.TotalWithholding, p.NetPayment,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payslip.Payslip{}, payslip.ErrPayslipAlreadyExists
		}
		return payslip.Payslip{}, err
	}

	return p, nil
}

func (r *payslipRepositoryImpl) GetByID(ctx context.Context, id string) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayslip(q.QueryRow(ctx, `SELECT `+payslipColumns+` FROM payslips WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Payslip{}, payslip.ErrPayslipNotFound
		}
		return payslip.Payslip{}, err
	}

	return p, nil
}

func (r *payslipRepositoryImpl) GetByProfilePeriod(ctx context.Context, profileID, period string) (payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayslip(q.QueryRow(ctx, `
		SELECT `+payslipColumns+` FROM payslips WHERE profile_id = $1 AND period = $2
	`, profileID, period))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payslip.Payslip{}, payslip.ErrPayslipNotFound
		}
		return payslip.Payslip{}, err
	}

	return p, nil
}

func (r *payslipRepositoryImpl) ListByStatus(ctx context.Context, status payslip.PayslipStatus) ([]payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+payslipColumns+` FROM payslips WHERE status = $1 ORDER BY period, created_at
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayslips(rows)
}

func (r *payslipRepositoryImpl) ListByProfileID(ctx context.Context, profileID string) ([]payslip.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+payslipColumns+` FROM payslips WHERE profile_id = $1 ORDER BY period DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayslips(rows)
}

func collectPayslips(rows pgx.Rows) ([]payslip.Payslip, error) {
	var payslips []payslip.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		payslips = append(payslips, p)
	}
	return payslips, rows.Err()
}

func (r *payslipRepositoryImpl) MarkApproved(ctx context.Context, id, adminID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE payslips SET
			status = 'APPROVED',
			approved_at = NOW(),
			approved_by = $2,
			updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`, id, adminID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return payslip.ErrPayslipAlreadyProcessed
	}
	return nil
}

func (r *payslipRepositoryImpl) MarkSent(ctx context.Context, id, pdfURL string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE payslips SET
			status = 'SENT',
			sent_at = NOW(),
			pdf_url = $2,
			updated_at = NOW()
		WHERE id = $1 AND status = 'APPROVED'
	`, id, pdfURL)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return payslip.ErrPayslipAlreadyProcessed
	}
	return nil
}
