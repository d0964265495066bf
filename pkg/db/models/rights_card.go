package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	dbtypes "github.com/careplushealth/careplus-backend/pkg/db/types"
	"github.com/careplushealth/careplus-backend/pkg/enums"
)

// RightsCard is a catalog product for the nursing/special-drug card family.
// Unlike memberships, instances start inactive and must be activated, and the
// duration is expressed in calendar years.
type RightsCard struct {
	ID               uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string               `gorm:"column:name;not null"`
	Type             enums.RightsCardType `gorm:"column:type;type:text;not null;index"`
	Description      *string              `gorm:"column:description"`
	Price            decimal.Decimal      `gorm:"column:price;type:numeric(12,2);not null"`
	DurationYears    int                  `gorm:"column:duration_years;not null"`
	CoverageDetails  datatypes.JSON       `gorm:"column:coverage_details;type:jsonb"`
	EligibilityRules datatypes.JSON       `gorm:"column:eligibility_rules;type:jsonb"`
	KeyFeatures      pq.StringArray       `gorm:"column:key_features;type:text[];default:ARRAY[]::text[]"`
	MinActivationAge *int                 `gorm:"column:min_activation_age"`
	MaxActivationAge *int                 `gorm:"column:max_activation_age"`
	BenefitTemplate  dbtypes.BenefitMap   `gorm:"column:benefit_template;type:jsonb;not null"`
	Available        bool                 `gorm:"column:available;not null;default:true"`
	SortOrder        int                  `gorm:"column:sort_order;not null;default:0"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
