package enums

import "fmt"

// RightsCardType is the closed product family for rights cards.
type RightsCardType string

const (
	RightsCardTypeNursing     RightsCardType = "nursing"
	RightsCardTypeSpecialDrug RightsCardType = "special_drug"
	RightsCardTypeOther       RightsCardType = "other"
)

var validRightsCardTypes = []RightsCardType{
	RightsCardTypeNursing,
	RightsCardTypeSpecialDrug,
	RightsCardTypeOther,
}

// String implements fmt.Stringer.
func (t RightsCardType) String() string {
	return string(t)
}

// IsValid reports whether the value matches a known RightsCardType.
func (t RightsCardType) IsValid() bool {
	for _, candidate := range validRightsCardTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseRightsCardType converts raw input into a RightsCardType.
func ParseRightsCardType(value string) (RightsCardType, error) {
	for _, candidate := range validRightsCardTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rights card type %q", value)
}
