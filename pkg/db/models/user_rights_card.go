package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/careplushealth/careplus-backend/pkg/db/types"
	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// UserRightsCard is a purchased rights-card instance. Activation stamps the
// date window; usage appends UsageRecord rows rather than decrementing the
// benefit map. Expiry is derived lazily from ExpiryDate at read/use time.
type UserRightsCard struct {
	ID                uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	CardID            uuid.UUID              `gorm:"column:card_id;type:uuid;not null;index"`
	CardNumber        string                 `gorm:"column:card_number;not null;uniqueIndex"`
	Status            enums.RightsCardStatus `gorm:"column:status;type:text;not null;default:'inactive'"`
	ActivationDate    *time.Time             `gorm:"column:activation_date"`
	ExpiryDate        *time.Time             `gorm:"column:expiry_date"`
	RemainingBenefits dbtypes.BenefitMap     `gorm:"column:remaining_benefits;type:jsonb;not null"`
	PaymentMethod     enums.PaymentMethod    `gorm:"column:payment_method;type:text;not null"`
	PaymentAmount     decimal.Decimal        `gorm:"column:payment_amount;type:numeric(12,2);not null"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	Card *RightsCard `gorm:"foreignKey:CardID"`
}
