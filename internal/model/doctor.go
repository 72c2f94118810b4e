package model

import (
	"database/sql/driver"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Weekdays is a set of weekday indices, 0 = Sunday. Stored as integer[].
type Weekdays []int

// Contains reports whether day is in the set.
func (w Weekdays) Contains(day int) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// Normalized returns a sorted copy.
func (w Weekdays) Normalized() Weekdays {
	out := append(Weekdays(nil), w...)
	sort.Ints(out)
	return out
}

func (w Weekdays) Value() (driver.Value, error) {
	arr := make(pq.Int64Array, len(w))
	for i, d := range w {
		arr[i] = int64(d)
	}
	return arr.Value()
}

func (w *Weekdays) Scan(src interface{}) error {
	var arr pq.Int64Array
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("failed to scan weekdays: %w", err)
	}
	out := make(Weekdays, len(arr))
	for i, d := range arr {
		out[i] = int(d)
	}
	*w = out
	return nil
}

// Doctor availability times are canonical HH:mm:ss in UTC.
type Doctor struct {
	Base
	ClinicID                uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name                    string    `db:"name" json:"name"`
	Email                   string    `db:"email" json:"email"`
	Phone                   string    `db:"phone" json:"phone"`
	AvatarImageURL          string    `db:"avatar_image_url" json:"avatar_image_url,omitempty"`
	Specialization          string    `db:"specialization" json:"specialization"`
	AppointmentPriceInCents int64     `db:"appointment_price_in_cents" json:"appointment_price_in_cents"`
	AvailableWeekdays       Weekdays  `db:"available_week_days" json:"available_week_days"`
	AvailableFromTime       string    `db:"available_from_time" json:"available_from_time"`
	AvailableToTime         string    `db:"available_to_time" json:"available_to_time"`
}

// AvailabilityValid checks the from < to invariant on canonical time strings.
func (d *Doctor) AvailabilityValid() bool {
	return d.AvailableFromTime < d.AvailableToTime
}

// UpsertDoctorRequest carries availability in the clinic's local time.
type UpsertDoctorRequest struct {
	ID                      *uuid.UUID `json:"id"`
	Name                    string     `json:"name" validate:"required,min=2"`
	Email                   string     `json:"email" validate:"required,email"`
	Phone                   string     `json:"phone" validate:"required,min=8"`
	AvatarImageURL          string     `json:"avatar_image_url" validate:"omitempty,url"`
	Specialization          string     `json:"specialization" validate:"required"`
	AppointmentPriceInCents int64      `json:"appointment_price_in_cents" validate:"min=1"`
	AvailableWeekdays       Weekdays   `json:"available_week_days" validate:"required,min=1,weekdays"`
	AvailableFromTime       string     `json:"available_from_time" validate:"required,timeofday"`
	AvailableToTime         string     `json:"available_to_time" validate:"required,timeofday,timeafter=AvailableFromTime"`
}

// DoctorView adds the local projection of the availability window.
type DoctorView struct {
	Doctor
	AvailableFromTimeLocal string `json:"available_from_time_local"`
	AvailableToTimeLocal   string `json:"available_to_time_local"`
}
