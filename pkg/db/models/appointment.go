package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// Appointment books one doctor slot on one day. A partial unique index on
// (doctor_id, date, slot) WHERE status = 'booked' backstops the in-transaction
// conflict check so a cancelled slot can be rebooked.
type Appointment struct {
	ID        uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	DoctorID  uuid.UUID               `gorm:"column:doctor_id;type:uuid;not null;index:idx_appointments_doctor_slot"`
	Date      time.Time               `gorm:"column:date;type:date;not null;index:idx_appointments_doctor_slot"`
	Slot      string                  `gorm:"column:slot;not null;index:idx_appointments_doctor_slot"`
	Status    enums.AppointmentStatus `gorm:"column:status;type:text;not null;default:'booked'"`
	Note      *string                 `gorm:"column:note"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	Doctor *Doctor `gorm:"foreignKey:DoctorID"`
}
