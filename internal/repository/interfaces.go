package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ryanolv/doctor-agenda/internal/model"
)

// All repository interfaces in one file. Every read and write is scoped by clinic ID.
type (
	ClinicRepository interface {
		// CreateWithMembership inserts the clinic and the user's membership atomically.
		CreateWithMembership(ctx context.Context, clinic *model.Clinic, userID uuid.UUID) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		Update(ctx context.Context, clinic *model.Clinic) error
		// GetFirstForUser returns the user's oldest membership clinic, or nil without error.
		GetFirstForUser(ctx context.Context, userID uuid.UUID) (*model.Clinic, error)
		ListIDs(ctx context.Context) ([]uuid.UUID, error)
	}

	DoctorRepository interface {
		Upsert(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Doctor, error)
		List(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error)
		Delete(ctx context.Context, clinicID, id uuid.UUID) error
		CountAvailableOn(ctx context.Context, clinicID uuid.UUID, weekday int) (int, error)
	}

	PatientRepository interface {
		Upsert(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
		List(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error)
		Delete(ctx context.Context, clinicID, id uuid.UUID) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.AppointmentWithRelations, error)
		// UpdateStatus moves an appointment from `from` to `to`; it reports NotFound when
		// no row in the clinic currently has status `from`.
		UpdateStatus(ctx context.Context, clinicID, id uuid.UUID, from, to model.AppointmentStatus) error
		// List orders by creation time, newest first.
		List(ctx context.Context, clinicID uuid.UUID) ([]*model.AppointmentWithRelations, error)
		ListInWindow(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithRelations, error)
		CountInWindow(ctx context.Context, clinicID uuid.UUID, start, end time.Time) (int, error)
		SumPriceInWindow(ctx context.Context, clinicID uuid.UUID, start, end time.Time, status model.AppointmentStatus) (int64, error)
	}
)
