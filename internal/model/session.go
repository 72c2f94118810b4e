package model

import (
	"github.com/google/uuid"

	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

// SessionClinic is the caller's active clinic (first membership).
type SessionClinic struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Phone   string    `json:"phone"`
	Email   string    `json:"email"`
	Website *string   `json:"website,omitempty"`
}

type SessionUser struct {
	ID     uuid.UUID      `json:"id"`
	Clinic *SessionClinic `json:"clinic"`
}

// Session is the explicit identity passed into every service call.
type Session struct {
	User *SessionUser `json:"user"`
}

// RequireUser fails with Unauthorized when there is no authenticated user.
func (s *Session) RequireUser() (uuid.UUID, error) {
	if s == nil || s.User == nil {
		return uuid.Nil, apperrors.Unauthorized(nil)
	}
	return s.User.ID, nil
}

// RequireClinic fails with Unauthorized or ClinicNotFound.
func (s *Session) RequireClinic() (uuid.UUID, error) {
	if _, err := s.RequireUser(); err != nil {
		return uuid.Nil, err
	}
	if s.User.Clinic == nil || s.User.Clinic.ID == uuid.Nil {
		return uuid.Nil, apperrors.ClinicNotFound()
	}
	return s.User.Clinic.ID, nil
}

// NeedsClinic reports an authenticated user without any membership.
func (s *Session) NeedsClinic() bool {
	return s != nil && s.User != nil && s.User.Clinic == nil
}

func NewSessionClinic(c *Clinic) *SessionClinic {
	if c == nil {
		return nil
	}
	return &SessionClinic{
		ID:      c.ID,
		Name:    c.Name,
		Address: c.Address,
		Phone:   c.Phone,
		Email:   c.Email,
		Website: c.Website,
	}
}
