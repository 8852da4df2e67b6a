package postgresql

import (
	"context"
	"errors"

	"github.com/cruisehub/reseller-backend-go/internal/domain/lead"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leadRepositoryImpl struct {
	db *database.DB
}

func NewLeadRepository(db *database.DB) lead.LeadRepository {
	return &leadRepositoryImpl{db: db}
}

func (r *leadRepositoryImpl) Create(ctx context.Context, l lead.Lead) (lead.Lead, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leads (id, customer_name, agent_id, manager_id, status, source, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		l.CustomerName, l.AgentID, l.ManagerID, l.Status, l.Source,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return lead.Lead{}, err
	}

	return l, nil
}

func (r *leadRepositoryImpl) GetByID(ctx context.Context, id string) (lead.Lead, error) {
	q := GetQuerier(ctx, r.db)

	var l lead.Lead
	err := q.QueryRow(ctx, `
		SELECT id, customer_name, agent_id, manager_id, status, source, created_at, updated_at
		FROM leads
		WHERE id = $1
	`, id).Scan(
		&l.ID,
		&l.CustomerName,
		&l.AgentID,
		&l.ManagerID,
		&l.Status,
		&l.Source,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lead.Lead{}, lead.ErrLeadNotFound
		}
		return lead.Lead{}, err
	}

	return l, nil
}

func (r *leadRepositoryImpl) UpdateStatus(ctx context.Context, id string, status lead.LeadStatus) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return lead.ErrLeadNotFound
	}
	return nil
}
