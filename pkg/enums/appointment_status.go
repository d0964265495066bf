package enums

import "fmt"

// AppointmentStatus captures the lifecycle of a booked appointment.
type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

var validAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusBooked,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

// String implements fmt.Stringer.
func (s AppointmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known AppointmentStatus.
func (s AppointmentStatus) IsValid() bool {
	for _, candidate := range validAppointmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAppointmentStatus converts raw input into an AppointmentStatus.
func ParseAppointmentStatus(value string) (AppointmentStatus, error) {
	for _, candidate := range validAppointmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid appointment status %q", value)
}
