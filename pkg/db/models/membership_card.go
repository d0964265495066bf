package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/careplushealth/careplus-backend/pkg/db/types"
)

// MembershipCard is a catalog product: a purchasable bundle of service quotas.
// Catalog rows are immutable from the purchase/usage flows' perspective.
type MembershipCard struct {
	ID              uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string             `gorm:"column:name;not null"`
	Description     *string            `gorm:"column:description"`
	Price           decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	DurationDays    int                `gorm:"column:duration_days;not null"`
	BenefitTemplate dbtypes.BenefitMap `gorm:"column:benefit_template;type:jsonb;not null"`
	Available       bool               `gorm:"column:available;not null;default:true"`
	SortOrder       int                `gorm:"column:sort_order;not null;default:0"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
