package memberships

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/careplushealth/careplus-backend/pkg/db/models"
	dbtypes "github.com/careplushealth/careplus-backend/pkg/db/types"
	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// CardDTO is the catalog shape shown to patients.
type CardDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DurationDays    int             `json:"duration_days"`
	BenefitTemplate map[string]int  `json:"benefit_template"`
	Available       bool            `json:"available"`
	SortOrder       int             `json:"sort_order"`
}

// CreateCardRequest is the admin payload for adding a catalog product.
type CreateCardRequest struct {
	Name         string         `json:"name" validate:"required,max=120"`
	Description  *string        `json:"description,omitempty"`
	Price        string         `json:"price" validate:"required"`
	DurationDays int            `json:"duration_days" validate:"required,gt=0"`
	Benefits     map[string]int `json:"benefits" validate:"required,min=1"`
	Available    *bool          `json:"available,omitempty"`
	SortOrder    int            `json:"sort_order,omitempty"`
}

// PurchaseRequest records a membership purchase. The price is read from the
// catalog row; the client only declares how it was paid.
type PurchaseRequest struct {
	CardID        uuid.UUID `json:"card_id" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required"`
}

// UseServiceRequest consumes quota from a membership's benefit ledger.
type UseServiceRequest struct {
	ServiceType string `json:"service_type" validate:"required,max=80"`
	Quantity    int    `json:"quantity,omitempty" validate:"omitempty,gt=0"`
}

// MembershipDTO is the instance shape returned to clients. Status is the
// derived value: an active row past its end date reports as expired.
type MembershipDTO struct {
	ID                uuid.UUID                  `json:"id"`
	UserID            uuid.UUID                  `json:"user_id"`
	CardID            uuid.UUID                  `json:"card_id"`
	CardName          string                     `json:"card_name,omitempty"`
	CardNumber        string                     `json:"card_number"`
	Status            enums.MembershipCardStatus `json:"status"`
	StartDate         time.Time                  `json:"start_date"`
	EndDate           time.Time                  `json:"end_date"`
	RemainingBenefits map[string]int             `json:"remaining_benefits"`
	PaymentMethod     enums.PaymentMethod        `json:"payment_method"`
	PaymentAmount     decimal.Decimal            `json:"payment_amount"`
	CreatedAt         time.Time                  `json:"created_at"`
}

func cardFromModel(card *models.MembershipCard) CardDTO {
	template := card.BenefitTemplate
	if template == nil {
		template = dbtypes.BenefitMap{}
	}
	return CardDTO{
		ID:              card.ID,
		Name:            card.Name,
		Description:     card.Description,
		Price:           card.Price,
		DurationDays:    card.DurationDays,
		BenefitTemplate: map[string]int(template),
		Available:       card.Available,
		SortOrder:       card.SortOrder,
	}
}

func membershipFromModel(m *models.UserMembership, now time.Time) MembershipDTO {
	benefits := m.RemainingBenefits
	if benefits == nil {
		benefits = dbtypes.BenefitMap{}
	}
	dto := MembershipDTO{
		ID:                m.ID,
		UserID:            m.UserID,
		CardID:            m.CardID,
		CardNumber:        m.CardNumber,
		Status:            derivedStatus(m, now),
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		RemainingBenefits: map[string]int(benefits),
		PaymentMethod:     m.PaymentMethod,
		PaymentAmount:     m.PaymentAmount,
		CreatedAt:         m.CreatedAt,
	}
	if m.Card != nil {
		dto.CardName = m.Card.Name
	}
	return dto
}

// derivedStatus applies lazy expiry: the stored status stays authoritative
// unless an active row's window has closed.
func derivedStatus(m *models.UserMembership, now time.Time) enums.MembershipCardStatus {
	if m.Status == enums.MembershipCardStatusActive && now.After(m.EndDate) {
		return enums.MembershipCardStatusExpired
	}
	return m.Status
}
