package appointments

import (
	"time"

	"github.com/google/uuid"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// BookRequest reserves one doctor slot on one day.
type BookRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required,datetime=2006-01-02"`
	Slot     string    `json:"slot" validate:"required,max=40"`
	Note     *string   `json:"note,omitempty" validate:"omitempty,max=500"`
}

// AppointmentDTO is the booking shape returned to clients.
type AppointmentDTO struct {
	ID         uuid.UUID               `json:"id"`
	UserID     uuid.UUID               `json:"user_id"`
	DoctorID   uuid.UUID               `json:"doctor_id"`
	DoctorName string                  `json:"doctor_name,omitempty"`
	Date       string                  `json:"date"`
	Slot       string                  `json:"slot"`
	Status     enums.AppointmentStatus `json:"status"`
	Note       *string                 `json:"note,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
}

func fromModel(a *models.Appointment) AppointmentDTO {
	dto := AppointmentDTO{
		ID:        a.ID,
		UserID:    a.UserID,
		DoctorID:  a.DoctorID,
		Date:      a.Date.Format("2006-01-02"),
		Slot:      a.Slot,
		Status:    a.Status,
		Note:      a.Note,
		CreatedAt: a.CreatedAt,
	}
	if a.Doctor != nil {
		dto.DoctorName = a.Doctor.Name
	}
	return dto
}
