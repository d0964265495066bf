package enums

import "fmt"

// MembershipCardStatus captures the lifecycle of a purchased membership card.
// Memberships have no inactive state: they activate at purchase time.
type MembershipCardStatus string

const (
	MembershipCardStatusActive    MembershipCardStatus = "active"
	MembershipCardStatusExpired   MembershipCardStatus = "expired"
	MembershipCardStatusCancelled MembershipCardStatus = "cancelled"
)

var validMembershipCardStatuses = []MembershipCardStatus{
	MembershipCardStatusActive,
	MembershipCardStatusExpired,
	MembershipCardStatusCancelled,
}

// String implements fmt.Stringer.
func (s MembershipCardStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known MembershipCardStatus.
func (s MembershipCardStatus) IsValid() bool {
	for _, candidate := range validMembershipCardStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMembershipCardStatus converts raw input into a MembershipCardStatus.
func ParseMembershipCardStatus(value string) (MembershipCardStatus, error) {
	for _, candidate := range validMembershipCardStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid membership card status %q", value)
}
