package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Doctor is an admin-managed catalog entry shown to patients.
type Doctor struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Title       string          `gorm:"column:title;not null"`
	Department  string          `gorm:"column:department;not null;index"`
	Specialties pq.StringArray  `gorm:"column:specialties;type:text[];default:ARRAY[]::text[]"`
	Bio         *string         `gorm:"column:bio"`
	ConsultFee  decimal.Decimal `gorm:"column:consult_fee;type:numeric(12,2);not null"`
	Available   bool            `gorm:"column:available;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
