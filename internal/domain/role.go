package domain

import "slices"

// Role represents a user role in the system
type Role string

const (
	// RoleSuperAdmin operates the platform and may act on any tenant
	RoleSuperAdmin Role = "SUPER_ADMIN"

	// RoleTenantAdmin manages one restaurant: catalog, staff and settings
	RoleTenantAdmin Role = "TENANT_ADMIN"

	// RoleStaff works the order board of one restaurant
	RoleStaff Role = "STAFF"

	// RoleEndUser is a storefront customer account
	RoleEndUser Role = "END_USER"
)

// ValidRoles contains all valid roles in the system
var ValidRoles = []Role{RoleSuperAdmin, RoleTenantAdmin, RoleStaff, RoleEndUser}

// CatalogManagers may write categories and products.
var CatalogManagers = []Role{RoleSuperAdmin, RoleTenantAdmin}

// OrderOperators may read and move orders.
var OrderOperators = []Role{RoleSuperAdmin, RoleTenantAdmin, RoleStaff}

// IsValidRole checks if a given role is valid
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, Role(role))
}

// HasAnyRole reports whether role is one of the allowed roles
func HasAnyRole(role string, allowed ...Role) bool {
	return slices.Contains(allowed, Role(role))
}

// RequiresTenant is false only for platform operators.
func (r Role) RequiresTenant() bool {
	return r != RoleSuperAdmin
}
