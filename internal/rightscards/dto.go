package rightscards

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	dbtypes "github.com/careplushealth/careplus-backend/pkg/db/types"
	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// CardDTO is the catalog shape for the nursing/special-drug card family.
type CardDTO struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name"`
	Type             enums.RightsCardType `json:"type"`
	Description      *string              `json:"description,omitempty"`
	Price            decimal.Decimal      `json:"price"`
	DurationYears    int                  `json:"duration_years"`
	CoverageDetails  datatypes.JSON       `json:"coverage_details,omitempty"`
	EligibilityRules datatypes.JSON       `json:"eligibility_rules,omitempty"`
	KeyFeatures      []string             `json:"key_features"`
	MinActivationAge *int                 `json:"min_activation_age,omitempty"`
	MaxActivationAge *int                 `json:"max_activation_age,omitempty"`
	BenefitTemplate  map[string]int       `json:"benefit_template"`
	Available        bool                 `json:"available"`
	SortOrder        int                  `json:"sort_order"`
}

// CreateCardRequest is the admin payload for adding a rights-card product.
type CreateCardRequest struct {
	Name             string         `json:"name" validate:"required,max=120"`
	Type             string         `json:"type" validate:"required"`
	Description      *string        `json:"description,omitempty"`
	Price            string         `json:"price" validate:"required"`
	DurationYears    int            `json:"duration_years" validate:"required,gt=0"`
	CoverageDetails  datatypes.JSON `json:"coverage_details,omitempty"`
	EligibilityRules datatypes.JSON `json:"eligibility_rules,omitempty"`
	KeyFeatures      []string       `json:"key_features,omitempty"`
	MinActivationAge *int           `json:"min_activation_age,omitempty"`
	MaxActivationAge *int           `json:"max_activation_age,omitempty"`
	Benefits         map[string]int `json:"benefits" validate:"required,min=1"`
	Available        *bool          `json:"available,omitempty"`
	SortOrder        int            `json:"sort_order,omitempty"`
}

// PurchaseRequest records a rights-card purchase. The instance starts inactive.
type PurchaseRequest struct {
	CardID        uuid.UUID `json:"card_id" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required"`
}

// RecordUsageRequest logs one benefit usage against an active card.
type RecordUsageRequest struct {
	ServiceType string         `json:"service_type" validate:"required,max=80"`
	Details     map[string]any `json:"details,omitempty"`
}

// ReviewUsageRequest is the staff decision on a pending usage record.
type ReviewUsageRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}

// InstanceDTO is the purchased-instance shape. Status is derived: an active
// card past its expiry date reports as expired.
type InstanceDTO struct {
	ID                uuid.UUID              `json:"id"`
	UserID            uuid.UUID              `json:"user_id"`
	CardID            uuid.UUID              `json:"card_id"`
	CardName          string                 `json:"card_name,omitempty"`
	CardType          enums.RightsCardType   `json:"card_type,omitempty"`
	CardNumber        string                 `json:"card_number"`
	Status            enums.RightsCardStatus `json:"status"`
	ActivationDate    *time.Time             `json:"activation_date,omitempty"`
	ExpiryDate        *time.Time             `json:"expiry_date,omitempty"`
	RemainingBenefits map[string]int         `json:"remaining_benefits"`
	PaymentMethod     enums.PaymentMethod    `json:"payment_method"`
	PaymentAmount     decimal.Decimal        `json:"payment_amount"`
	CreatedAt         time.Time              `json:"created_at"`
}

// UsageRecordDTO is one audit-log row.
type UsageRecordDTO struct {
	ID               uuid.UUID               `json:"id"`
	UserRightsCardID uuid.UUID               `json:"user_rights_card_id"`
	ServiceType      string                  `json:"service_type"`
	Details          datatypes.JSON          `json:"details,omitempty"`
	Status           enums.UsageRecordStatus `json:"status"`
	ReviewedBy       *uuid.UUID              `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time              `json:"reviewed_at,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

func cardFromModel(card *models.RightsCard) CardDTO {
	template := card.BenefitTemplate
	if template == nil {
		template = dbtypes.BenefitMap{}
	}
	return CardDTO{
		ID:               card.ID,
		Name:             card.Name,
		Type:             card.Type,
		Description:      card.Description,
		Price:            card.Price,
		DurationYears:    card.DurationYears,
		CoverageDetails:  card.CoverageDetails,
		EligibilityRules: card.EligibilityRules,
		KeyFeatures:      []string(card.KeyFeatures),
		MinActivationAge: card.MinActivationAge,
		MaxActivationAge: card.MaxActivationAge,
		BenefitTemplate:  map[string]int(template),
		Available:        card.Available,
		SortOrder:        card.SortOrder,
	}
}

func instanceFromModel(m *models.UserRightsCard, now time.Time) InstanceDTO {
	benefits := m.RemainingBenefits
	if benefits == nil {
		benefits = dbtypes.BenefitMap{}
	}
	dto := InstanceDTO{
		ID:                m.ID,
		UserID:            m.UserID,
		CardID:            m.CardID,
		CardNumber:        m.CardNumber,
		Status:            derivedStatus(m, now),
		ActivationDate:    m.ActivationDate,
		ExpiryDate:        m.ExpiryDate,
		RemainingBenefits: map[string]int(benefits),
		PaymentMethod:     m.PaymentMethod,
		PaymentAmount:     m.PaymentAmount,
		CreatedAt:         m.CreatedAt,
	}
	if m.Card != nil {
		dto.CardName = m.Card.Name
		dto.CardType = m.Card.Type
	}
	return dto
}

func usageFromModel(r *models.UsageRecord) UsageRecordDTO {
	return UsageRecordDTO{
		ID:               r.ID,
		UserRightsCardID: r.UserRightsCardID,
		ServiceType:      r.ServiceType,
		Details:          r.Details,
		Status:           r.Status,
		ReviewedBy:       r.ReviewedBy,
		ReviewedAt:       r.ReviewedAt,
		CreatedAt:        r.CreatedAt,
	}
}

// derivedStatus applies lazy expiry. Inactive cards never expire by date: the
// window only starts at activation.
func derivedStatus(m *models.UserRightsCard, now time.Time) enums.RightsCardStatus {
	if m.Status == enums.RightsCardStatusActive && m.ExpiryDate != nil && now.After(*m.ExpiryDate) {
		return enums.RightsCardStatusExpired
	}
	return m.Status
}
