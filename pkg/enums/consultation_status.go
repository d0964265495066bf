package enums

import "fmt"

// ConsultationStatus tracks a support-ticket style consultation thread.
type ConsultationStatus string

const (
	ConsultationStatusOpen     ConsultationStatus = "open"
	ConsultationStatusAnswered ConsultationStatus = "answered"
	ConsultationStatusClosed   ConsultationStatus = "closed"
)

var validConsultationStatuses = []ConsultationStatus{
	ConsultationStatusOpen,
	ConsultationStatusAnswered,
	ConsultationStatusClosed,
}

// String implements fmt.Stringer.
func (s ConsultationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known ConsultationStatus.
func (s ConsultationStatus) IsValid() bool {
	for _, candidate := range validConsultationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseConsultationStatus converts raw input into a ConsultationStatus.
func ParseConsultationStatus(value string) (ConsultationStatus, error) {
	for _, candidate := range validConsultationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid consultation status %q", value)
}
