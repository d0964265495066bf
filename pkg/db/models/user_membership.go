package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/careplushealth/careplus-backend/pkg/db/types"
	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// UserMembership is a purchased membership card instance bound to one user.
// RemainingBenefits starts as a deep copy of the product template and is
// decremented in place as services are consumed. Cancellation flips the
// status; rows are never deleted in the normal flow.
type UserMembership struct {
	ID                uuid.UUID                  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID                  `gorm:"column:user_id;type:uuid;not null;index"`
	CardID            uuid.UUID                  `gorm:"column:card_id;type:uuid;not null;index"`
	CardNumber        string                     `gorm:"column:card_number;not null;uniqueIndex"`
	Status            enums.MembershipCardStatus `gorm:"column:status;type:text;not null;default:'active'"`
	StartDate         time.Time                  `gorm:"column:start_date;not null"`
	EndDate           time.Time                  `gorm:"column:end_date;not null"`
	RemainingBenefits dbtypes.BenefitMap         `gorm:"column:remaining_benefits;type:jsonb;not null"`
	PaymentMethod     enums.PaymentMethod        `gorm:"column:payment_method;type:text;not null"`
	PaymentAmount     decimal.Decimal            `gorm:"column:payment_amount;type:numeric(12,2);not null"`
	CreatedAt         time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time                  `gorm:"column:updated_at;autoUpdateTime"`

	Card *MembershipCard `gorm:"foreignKey:CardID"`
}
