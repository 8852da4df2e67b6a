package postgresql

import (
	"context"
	"errors"

	"github.com/cruisehub/reseller-backend-go/internal/domain/profile"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

func (r *profileRepositoryImpl) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO profiles (
			id, name, role, status, phone,
			bank_name, bank_account, account_holder,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.Name, p.Role, p.Status, p.Phone,
		p.BankName, p.BankAccount, p.AccountHolder,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return profile.Profile{}, err
	}

	return p, nil
}

func (r *profileRepositoryImpl) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, role, status, phone,
			   bank_name, bank_account, account_holder,
			   created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p profile.Profile
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Role,
		&p.Status,
		&p.Phone,
		&p.BankName,
		&p.BankAccount,
		&p.AccountHolder,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, err
	}

	return p, nil
}

func (r *profileRepositoryImpl) ListByIDs(ctx context.Context, ids []string) ([]profile.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, role, status, phone,
			   bank_name, bank_account, account_holder,
			   created_at, updated_at
		FROM profiles
		WHERE id = ANY($1)
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []profile.Profile
	for rows.Next() {
		var p profile.Profile
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Role,
			&p.Status,
			&p.Phone,
			&p.BankName,
			&p.BankAccount,
			&p.AccountHolder,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

func (r *profileRepositoryImpl) ListActive(ctx context.Context) ([]profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, role, status, phone,
			   bank_name, bank_account, account_holder,
			   created_at, updated_at
		FROM profiles
		WHERE status = 'ACTIVE'
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []profile.Profile
	for rows.Next() {
		var p profile.Profile
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Role,
			&p.Status,
			&p.Phone,
			&p.BankName,
			&p.BankAccount,
			&p.AccountHolder,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

func (r *profileRepositoryImpl) UpdateStatus(ctx context.Context, id string, status profile.ProfileStatus) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		UPDATE profiles SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return profile.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	// A profile referenced by any sale is immutable: deletion is rejected,
	// never cascaded. The guard lives in the DELETE itself so a sale created
	// concurrently cannot slip in between a check and the delete.
	commandTag, err := q.Exec(ctx, `
		DELETE FROM profiles
		WHERE id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM sales WHERE agent_id = $1 OR manager_id = $1
		  )
	`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 1 {
		return nil
	}

	// Zero rows: either the profile never existed or a sale references it.
	var referenced bool
	if err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM sales WHERE agent_id = $1 OR manager_id = $1
		)
	`, id).Scan(&referenced); err != nil {
		return err
	}
	if referenced {
		return profile.ErrProfileReferenced
	}
	return profile.ErrProfileNotFound
}
