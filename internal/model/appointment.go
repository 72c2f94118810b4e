package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo allows only scheduled -> completed and scheduled -> cancelled.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s != AppointmentStatusScheduled {
		return false
	}
	return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
}

// Appointment.Date is an absolute UTC instant. The price is a snapshot taken at booking.
type Appointment struct {
	Base
	PatientID               uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID                uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	ClinicID                uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	Date                    time.Time         `db:"date" json:"date"`
	Status                  AppointmentStatus `db:"status" json:"status"`
	AppointmentPriceInCents int64             `db:"appointment_price_in_cents" json:"appointment_price_in_cents"`
}

// CreateAppointmentRequest: price in reais, date YYYY-MM-DD, time HH:mm:ss local.
type CreateAppointmentRequest struct {
	PatientID        uuid.UUID `json:"patient_id" validate:"required"`
	DoctorID         uuid.UUID `json:"doctor_id" validate:"required"`
	AppointmentPrice float64   `json:"appointment_price" validate:"min=0"`
	AppointmentDate  string    `json:"appointment_date" validate:"required,isodate"`
	AppointmentTime  string    `json:"appointment_time" validate:"required,timeofday"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" validate:"required,oneof=completed cancelled"`
}

type AppointmentPatient struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Phone string    `db:"phone" json:"phone,omitempty"`
	Email string    `db:"email" json:"-"`
}

type AppointmentDoctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Specialization string    `db:"specialization" json:"specialization"`
}

// AppointmentWithRelations is an appointment joined with minimal patient and doctor
// projections.
type AppointmentWithRelations struct {
	Appointment
	Patient AppointmentPatient `db:"patient" json:"patient"`
	Doctor  AppointmentDoctor  `db:"doctor" json:"doctor"`
}

// AppointmentView is what the presentation layer renders.
type AppointmentView struct {
	AppointmentWithRelations
	LocalDate string `json:"local_date"`
	LocalTime string `json:"local_time"`
}

// AppointmentFilters selects an inclusive date window, optionally by status.
type AppointmentFilters struct {
	ClinicID uuid.UUID
	Start    time.Time
	End      time.Time
	Status   *AppointmentStatus
}
