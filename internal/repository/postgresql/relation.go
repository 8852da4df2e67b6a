package postgresql

import (
	"context"
	"errors"

	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type relationRepositoryImpl struct {
	db *database.DB
}

func NewRelationRepository(db *database.DB) profile.RelationRepository {
	return &relationRepositoryImpl{db: db}
}

func (r *relationRepositoryImpl) Create(ctx context.Context, rel profile.Relation) (profile.Relation, error) {
	q := GetQuerier(ctx, r.db)

	// The partial unique index on (agent_id) WHERE status = 'ACTIVE' enforces
	// the at-most-one-active-relation invariant under concurrency.
	query := `
		INSERT INTO relations (id, manager_id, agent_id, status, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, rel.ManagerID, rel.AgentID, rel.Status).
		Scan(&rel.ID, &rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return profile.Relation{}, profile.ErrRelationAlreadyActive
		}
		return profile.Relation{}, err
	}

	return rel, nil
}

func (r *relationRepositoryImpl) GetActiveAgentIDs(ctx context.Context, managerID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT agent_id FROM relations
		WHERE manager_id = $1 AND status = 'ACTIVE'
		ORDER BY created_at
	`, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agentIDs []string
	for rows.Next() {
		var agentID string
		if err := rows.Scan(&agentID); err != nil {
			return nil, err
		}
		agentIDs = append(agentIDs, agentID)
	}

	return agentIDs, rows.Err()
}

func (r *relationRepositoryImpl) GetActiveByAgentID(ctx context.Context, agentID string) (profile.Relation, error) {
	q := GetQuerier(ctx, r.db)

	var rel profile.Relation
	err := q.QueryRow(ctx, `
		SELECT id, manager_id, agent_id, status, created_at, updated_at
		FROM relations
		WHERE agent_id = $1 AND status = 'ACTIVE'
	`, agentID).Scan(
		&rel.ID,
		&rel.ManagerID,
		&rel.AgentID,
		&rel.Status,
		&rel.CreatedAt,
		&rel.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Relation{}, profile.ErrRelationNotFound
		}
		return profile.Relation{}, err
	}

	return rel, nil
}

func (r *relationRepositoryImpl) UpdateStatus(ctx context.Context, id string, status profile.RelationStatus) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE relations SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return profile.ErrRelationNotFound
	}
	return nil
}
