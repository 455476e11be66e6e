package enums

import "fmt"

// UserRole mirrors the storefront roles; embajador users may mint referral links.
type UserRole string

const (
	UserRoleCliente   UserRole = "cliente"
	UserRoleEmbajador UserRole = "embajador"
	UserRoleEmpresa   UserRole = "empresa"
	UserRoleAdmin     UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRoleCliente,
	UserRoleEmbajador,
	UserRoleEmpresa,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
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
