// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleDeveloper indicates an internal developer account.
	RoleDeveloper Role = "developer"
	// RoleCustomer indicates a customer account.
	RoleCustomer Role = "customer"
	// RoleDriver indicates a delivery driver account.
	RoleDriver Role = "driver"
	// RoleAdmin indicates an administrator account.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleDeveloper, RoleCustomer, RoleDriver, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role has unrestricted visibility over
// customer-owned resources.
func (r Role) IsStaff() bool {
	switch r {
	case RoleDriver, RoleAdmin, RoleDeveloper:
		return true
	default:
		return false
	}
}
