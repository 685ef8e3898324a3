package enums

import "fmt"

// StaffRole describes the back-office permission level carried in a JWT.
type StaffRole string

const (
	StaffRoleAdmin StaffRole = "admin"
	StaffRoleStaff StaffRole = "staff"
)

func (r StaffRole) String() string {
	return string(r)
}

func (r StaffRole) IsValid() bool {
	switch r {
	case StaffRoleAdmin, StaffRoleStaff:
		return true
	default:
		return false
	}
}

// ParseStaffRole converts a raw string into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	role := StaffRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid staff role %q", value)
	}
	return role, nil
}
