package model

// Clinic is the tenant boundary; every other entity carries its ID.
type Clinic struct {
	Base
	Name    string  `db:"name" json:"name"`
	Address string  `db:"address" json:"address"`
	Phone   string  `db:"phone" json:"phone"`
	Email   string  `db:"email" json:"email"`
	Website *string `db:"website" json:"website,omitempty"`
}

type CreateClinicRequest struct {
	Name    string  `json:"name" validate:"required,min=1"`
	Address string  `json:"address" validate:"required,min=1"`
	Phone   string  `json:"phone" validate:"required,min=8"`
	Email   string  `json:"email" validate:"required,email"`
	Website *string `json:"website" validate:"omitempty,url"`
}

type UpdateClinicRequest = CreateClinicRequest
