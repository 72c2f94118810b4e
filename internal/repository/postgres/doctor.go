package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ryanolv/doctor-agenda/internal/model"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

// time columns come back as time.Time from lib/pq, so they are read as text.
const doctorColumns = `
	id, clinic_id, name, email, phone, avatar_image_url, specialization,
	appointment_price_in_cents, available_week_days,
	to_char(available_from_time, 'HH24:MI:SS') AS available_from_time,
	to_char(available_to_time, 'HH24:MI:SS') AS available_to_time,
	created_at, updated_at
`

// Upsert inserts the doctor or fully replaces the row with the same id. A row owned by
// another clinic is left untouched and reported as NotFound. updated_at only moves when
// a column actually changes.
func (r *doctorRepository) Upsert(ctx context.Context, doctor *model.Doctor) (err error) {
	start := time.Now()
	defer func() { r.observe("doctors.upsert", start, err) }()

	query := `
		INSERT INTO doctors (
			id, clinic_id, name, email, phone, avatar_image_url, specialization,
			appointment_price_in_cents, available_week_days,
			available_from_time, available_to_time, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			avatar_image_url = EXCLUDED.avatar_image_url,
			specialization = EXCLUDED.specialization,
			appointment_price_in_cents = EXCLUDED.appointment_price_in_cents,
			available_week_days = EXCLUDED.available_week_days,
			available_from_time = EXCLUDED.available_from_time,
			available_to_time = EXCLUDED.available_to_time,
			updated_at = CASE
				WHEN (
					doctors.name, doctors.email, doctors.phone, doctors.avatar_image_url,
					doctors.specialization, doctors.appointment_price_in_cents,
					doctors.available_week_days, doctors.available_from_time, doctors.available_to_time
				) IS DISTINCT FROM (
					EXCLUDED.name, EXCLUDED.email, EXCLUDED.phone, EXCLUDED.avatar_image_url,
					EXCLUDED.specialization, EXCLUDED.appointment_price_in_cents,
					EXCLUDED.available_week_days, EXCLUDED.available_from_time, EXCLUDED.available_to_time
				) THEN EXCLUDED.updated_at
				ELSE doctors.updated_at
			END
		WHERE doctors.clinic_id = EXCLUDED.clinic_id
		RETURNING created_at, updated_at
	`
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}

	row := r.db.QueryRowxContext(ctx, query,
		doctor.ID,
		doctor.ClinicID,
		doctor.Name,
		doctor.Email,
		doctor.Phone,
		doctor.AvatarImageURL,
		doctor.Specialization,
		doctor.AppointmentPriceInCents,
		doctor.AvailableWeekdays,
		doctor.AvailableFromTime,
		doctor.AvailableToTime,
		r.now(),
	)
	if err := row.Scan(&doctor.CreatedAt, &doctor.UpdatedAt); err != nil {
		return notFound("doctor", fmt.Errorf("failed to upsert doctor: %w", err))
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1 AND clinic_id = $2`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id, clinicID); err != nil {
		return nil, notFound("doctor", fmt.Errorf("failed to get doctor: %w", err))
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE clinic_id = $1 ORDER BY name`

	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1 AND clinic_id = $2`, id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) CountAvailableOn(ctx context.Context, clinicID uuid.UUID, weekday int) (int, error) {
	query := `SELECT COUNT(*) FROM doctors WHERE clinic_id = $1 AND $2 = ANY(available_week_days)`

	var count int
	if err := r.db.GetContext(ctx, &count, query, clinicID, weekday); err != nil {
		return 0, fmt.Errorf("failed to count available doctors: %w", err)
	}
	return count, nil
}
