package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// Consultation is a support-ticket style question thread with a single staff
// reply slot.
type Consultation struct {
	ID        uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	Subject   string                   `gorm:"column:subject;not null"`
	Body      string                   `gorm:"column:body;not null"`
	Reply     *string                  `gorm:"column:reply"`
	RepliedBy *uuid.UUID               `gorm:"column:replied_by;type:uuid"`
	RepliedAt *time.Time               `gorm:"column:replied_at"`
	Status    enums.ConsultationStatus `gorm:"column:status;type:text;not null;default:'open'"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
