package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/ryanolv/doctor-agenda/internal/repository"
	"github.com/ryanolv/doctor-agenda/pkg/metrics"
)

type clinicRepository struct {
	BaseRepository
}

type doctorRepository struct {
	BaseRepository
}

type patientRepository struct {
	BaseRepository
}

type appointmentRepository struct {
	BaseRepository
}

func NewClinicRepository(db *sqlx.DB, m *metrics.Metrics) repository.ClinicRepository {
	return &clinicRepository{NewBaseRepository(db, m)}
}

func NewDoctorRepository(db *sqlx.DB, m *metrics.Metrics) repository.DoctorRepository {
	return &doctorRepository{NewBaseRepository(db, m)}
}

func NewPatientRepository(db *sqlx.DB, m *metrics.Metrics) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db, m)}
}

func NewAppointmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db, m)}
}
