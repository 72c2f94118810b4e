package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ryanolv/doctor-agenda/internal/model"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

const clinicColumns = `id, name, address, phone, email, website, created_at, updated_at`

func (r *clinicRepository) CreateWithMembership(ctx context.Context, clinic *model.Clinic, userID uuid.UUID) (err error) {
	start := time.Now()
	defer func() { r.observe("clinics.create", start, err) }()

	if clinic.ID == uuid.Nil {
		clinic.ID = uuid.New()
	}
	now := r.now()
	clinic.CreatedAt = now
	clinic.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO clinics (
				id, name, address, phone, email, website, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8
			)
		`
		if _, err := tx.ExecContext(ctx, query,
			clinic.ID,
			clinic.Name,
			clinic.Address,
			clinic.Phone,
			clinic.Email,
			clinic.Website,
			clinic.CreatedAt,
			clinic.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create clinic: %w", err)
		}

		membership := `
			INSERT INTO users_to_clinics (user_id, clinic_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, membership, userID, clinic.ID, now, now); err != nil {
			return fmt.Errorf("failed to create clinic membership: %w", err)
		}
		return nil
	})
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `SELECT ` + clinicColumns + ` FROM clinics WHERE id = $1`

	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, query, id); err != nil {
		return nil, notFound("clinic", fmt.Errorf("failed to get clinic: %w", err))
	}
	return &clinic, nil
}

func (r *clinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, address = $2, phone = $3, email = $4, website = $5, updated_at = $6
		WHERE id = $7
	`
	clinic.UpdatedAt = r.now()

	result, err := r.db.ExecContext(ctx, query,
		clinic.Name,
		clinic.Address,
		clinic.Phone,
		clinic.Email,
		clinic.Website,
		clinic.UpdatedAt,
		clinic.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update clinic: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("clinic", nil)
	}
	return nil
}

func (r *clinicRepository) GetFirstForUser(ctx context.Context, userID uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT c.id, c.name, c.address, c.phone, c.email, c.website, c.created_at, c.updated_at
		FROM users_to_clinics uc
		JOIN clinics c ON c.id = uc.clinic_id
		WHERE uc.user_id = $1
		ORDER BY uc.created_at ASC
		LIMIT 1
	`
	var clinic model.Clinic
	err := r.db.GetContext(ctx, &clinic, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic for user: %w", err)
	}
	return &clinic, nil
}

func (r *clinicRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM clinics ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return ids, nil
}
