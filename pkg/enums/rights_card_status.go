package enums

import "fmt"

// RightsCardStatus captures the lifecycle of a purchased rights card:
// inactive -> active -> expired/cancelled.
type RightsCardStatus string

const (
	RightsCardStatusInactive  RightsCardStatus = "inactive"
	RightsCardStatusActive    RightsCardStatus = "active"
	RightsCardStatusExpired   RightsCardStatus = "expired"
	RightsCardStatusCancelled RightsCardStatus = "cancelled"
)

var validRightsCardStatuses = []RightsCardStatus{
	RightsCardStatusInactive,
	RightsCardStatusActive,
	RightsCardStatusExpired,
	RightsCardStatusCancelled,
}

// String implements fmt.Stringer.
func (s RightsCardStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known RightsCardStatus.
func (s RightsCardStatus) IsValid() bool {
	for _, candidate := range validRightsCardStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRightsCardStatus converts raw input into a RightsCardStatus.
func ParseRightsCardStatus(value string) (RightsCardStatus, error) {
	for _, candidate := range validRightsCardStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rights card status %q", value)
}
