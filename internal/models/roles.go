package models

// Roles assignable to a user. Every signup gets RoleCustomer; admins are
// promoted out of band.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// ValidRole reports whether role is one of the known role tags.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}
