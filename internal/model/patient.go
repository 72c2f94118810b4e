package model

import (
	"github.com/google/uuid"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Patient.DateOfBirth is a plain YYYY-MM-DD calendar date.
type Patient struct {
	Base
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	Sex         Sex       `db:"sex" json:"sex"`
	DateOfBirth string    `db:"date_of_birth" json:"date_of_birth"`
}

// UpsertPatientRequest takes the date of birth as typed locally (DD/MM/YYYY).
type UpsertPatientRequest struct {
	ID          *uuid.UUID `json:"id"`
	Name        string     `json:"name" validate:"required,min=1"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       string     `json:"phone" validate:"required,min=10"`
	Sex         Sex        `json:"sex" validate:"required,oneof=male female"`
	DateOfBirth string     `json:"date_of_birth" validate:"required,min=10,localdate,notfuture"`
}

type PatientView struct {
	Patient
	DateOfBirthLocal string `json:"date_of_birth_local"`
}
