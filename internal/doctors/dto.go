package doctors

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
)

// DoctorDTO is the catalog shape shown to patients.
type DoctorDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Department  string          `json:"department"`
	Specialties []string        `json:"specialties"`
	Bio         *string         `json:"bio,omitempty"`
	ConsultFee  decimal.Decimal `json:"consult_fee"`
	Available   bool            `json:"available"`
}

// CreateDoctorRequest is the admin payload for adding a doctor.
type CreateDoctorRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Title       string   `json:"title" validate:"required,max=120"`
	Department  string   `json:"department" validate:"required,max=120"`
	Specialties []string `json:"specialties,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	ConsultFee  string   `json:"consult_fee" validate:"required"`
	Available   *bool    `json:"available,omitempty"`
}

// UpdateDoctorRequest patches a doctor profile. Nil fields are left unchanged.
type UpdateDoctorRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=120"`
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=120"`
	Department  *string  `json:"department,omitempty" validate:"omitempty,max=120"`
	Specialties []string `json:"specialties,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	ConsultFee  *string  `json:"consult_fee,omitempty"`
	Available   *bool    `json:"available,omitempty"`
}

// ListFilters narrows the doctor catalog.
type ListFilters struct {
	Department    string
	AvailableOnly bool
}

// DoctorList is one page of the catalog plus the cursor for the next one.
type DoctorList struct {
	Doctors    []DoctorDTO `json:"doctors"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

func fromModel(d *models.Doctor) DoctorDTO {
	return DoctorDTO{
		ID:          d.ID,
		Name:        d.Name,
		Title:       d.Title,
		Department:  d.Department,
		Specialties: []string(d.Specialties),
		Bio:         d.Bio,
		ConsultFee:  d.ConsultFee,
		Available:   d.Available,
	}
}
