package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ryanolv/doctor-agenda/internal/model"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

const patientColumns = `
	id, clinic_id, name, email, phone, sex,
	to_char(date_of_birth, 'YYYY-MM-DD') AS date_of_birth,
	created_at, updated_at
`

func (r *patientRepository) Upsert(ctx context.Context, patient *model.Patient) (err error) {
	start := time.Now()
	defer func() { r.observe("patients.upsert", start, err) }()

	query := `
		INSERT INTO patients (
			id, clinic_id, name, email, phone, sex, date_of_birth, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $8
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			sex = EXCLUDED.sex,
			date_of_birth = EXCLUDED.date_of_birth,
			updated_at = CASE
				WHEN (patients.name, patients.email, patients.phone, patients.sex, patients.date_of_birth)
					IS DISTINCT FROM
					(EXCLUDED.name, EXCLUDED.email, EXCLUDED.phone, EXCLUDED.sex, EXCLUDED.date_of_birth)
				THEN EXCLUDED.updated_at
				ELSE patients.updated_at
			END
		WHERE patients.clinic_id = EXCLUDED.clinic_id
		RETURNING created_at, updated_at
	`
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}

	row := r.db.QueryRowxContext(ctx, query,
		patient.ID,
		patient.ClinicID,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.Sex,
		patient.DateOfBirth,
		r.now(),
	)
	if err := row.Scan(&patient.CreatedAt, &patient.UpdatedAt); err != nil {
		return notFound("patient", fmt.Errorf("failed to upsert patient: %w", err))
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND clinic_id = $2`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id, clinicID); err != nil {
		return nil, notFound("patient", fmt.Errorf("failed to get patient: %w", err))
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE clinic_id = $1 ORDER BY name`

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient", nil)
	}
	return nil
}
