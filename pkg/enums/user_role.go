package enums

import "fmt"

// UserRole determines which API surfaces an account may reach.
type UserRole string

const (
	UserRolePatient UserRole = "patient"
	UserRoleStaff   UserRole = "staff"
	UserRoleAdmin   UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRolePatient,
	UserRoleStaff,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value matches a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
