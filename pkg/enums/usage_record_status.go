package enums

import "fmt"

// UsageRecordStatus tracks staff review of a rights-card usage request.
type UsageRecordStatus string

const (
	UsageRecordStatusPending   UsageRecordStatus = "pending"
	UsageRecordStatusApproved  UsageRecordStatus = "approved"
	UsageRecordStatusRejected  UsageRecordStatus = "rejected"
	UsageRecordStatusCompleted UsageRecordStatus = "completed"
	UsageRecordStatusCancelled UsageRecordStatus = "cancelled"
)

var validUsageRecordStatuses = []UsageRecordStatus{
	UsageRecordStatusPending,
	UsageRecordStatusApproved,
	UsageRecordStatusRejected,
	UsageRecordStatusCompleted,
	UsageRecordStatusCancelled,
}

// String implements fmt.Stringer.
func (s UsageRecordStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known UsageRecordStatus.
func (s UsageRecordStatus) IsValid() bool {
	for _, candidate := range validUsageRecordStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseUsageRecordStatus converts raw input into a UsageRecordStatus.
func ParseUsageRecordStatus(value string) (UsageRecordStatus, error) {
	for _, candidate := range validUsageRecordStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid usage record status %q", value)
}
