package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// UsageRecord is the append-only audit log for rights-card benefit usage.
// Only the review status mutates after creation.
type UsageRecord struct {
	ID               uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserRightsCardID uuid.UUID               `gorm:"column:user_rights_card_id;type:uuid;not null;index"`
	ServiceType      string                  `gorm:"column:service_type;not null"`
	Details          datatypes.JSON          `gorm:"column:details;type:jsonb"`
	Status           enums.UsageRecordStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ReviewedBy       *uuid.UUID              `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt       *time.Time              `gorm:"column:reviewed_at"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
