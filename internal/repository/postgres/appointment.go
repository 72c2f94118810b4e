package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ryanolv/doctor-agenda/internal/model"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

const appointmentWithRelationsSelect = `
	SELECT a.id, a.patient_id, a.doctor_id, a.clinic_id, a.date, a.status,
		   a.appointment_price_in_cents, a.created_at, a.updated_at,
		   p.id AS "patient.id", p.name AS "patient.name",
		   p.phone AS "patient.phone", p.email AS "patient.email",
		   d.id AS "doctor.id", d.name AS "doctor.name",
		   d.specialization AS "doctor.specialization"
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (err error) {
	start := time.Now()
	defer func() { r.observe("appointments.create", start, err) }()

	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, clinic_id, date, status,
			appointment_price_in_cents, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := r.now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.ClinicID,
		appointment.Date,
		appointment.Status,
		appointment.AppointmentPriceInCents,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.AppointmentWithRelations, error) {
	query := appointmentWithRelationsSelect + ` WHERE a.id = $1 AND a.clinic_id = $2`

	var appointment model.AppointmentWithRelations
	if err := r.db.GetContext(ctx, &appointment, query, id, clinicID); err != nil {
		return nil, notFound("appointment", fmt.Errorf("failed to get appointment: %w", err))
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, clinicID, id uuid.UUID, from, to model.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND clinic_id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query, to, r.now(), id, clinicID, from)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.AppointmentWithRelations, error) {
	query := appointmentWithRelationsSelect + ` WHERE a.clinic_id = $1 ORDER BY a.created_at DESC`

	appointments := []*model.AppointmentWithRelations{}
	if err := r.db.SelectContext(ctx, &appointments, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ListInWindow returns appointments with start <= date <= end in date order.
func (r *appointmentRepository) ListInWindow(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithRelations, error) {
	query := appointmentWithRelationsSelect + ` WHERE a.clinic_id = $1 AND a.date >= $2 AND a.date <= $3`
	args := []interface{}{filters.ClinicID, filters.Start, filters.End}

	if filters.Status != nil {
		args = append(args, *filters.Status)
		query += fmt.Sprintf(" AND a.status = $%d", len(args))
	}
	query += " ORDER BY a.date ASC"

	appointments := []*model.AppointmentWithRelations{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments in window: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountInWindow(ctx context.Context, clinicID uuid.UUID, start, end time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE clinic_id = $1 AND date >= $2 AND date <= $3`

	var count int
	if err := r.db.GetContext(ctx, &count, query, clinicID, start, end); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) SumPriceInWindow(ctx context.Context, clinicID uuid.UUID, start, end time.Time, status model.AppointmentStatus) (int64, error) {
	query := `
		SELECT COALESCE(SUM(appointment_price_in_cents), 0)
		FROM appointments
		WHERE clinic_id = $1 AND date >= $2 AND date <= $3 AND status = $4
	`
	var total int64
	if err := r.db.GetContext(ctx, &total, query, clinicID, start, end, status); err != nil {
		return 0, fmt.Errorf("failed to sum appointment prices: %w", err)
	}
	return total, nil
}
