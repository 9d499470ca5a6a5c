package service

import (
	"errors"

	"github.com/kingrain94/restaurant-saas/internal/domain"
)

var (
	// Tenant errors
	ErrTenantNotFound   = errors.New("Tenant not found")
	ErrSubdomainTaken   = errors.New("subdomain is already taken")
	ErrTenantRequired   = errors.New("tenant could not be determined")
	ErrTenantForbidden  = errors.New("access to this tenant is not allowed")
	ErrSubdomainChanged = domain.NewValidationError("subdomain cannot be changed")

	// User errors
	ErrUserNotFound       = errors.New("User not found")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Catalog errors
	ErrCategoryNotFound = errors.New("Category not found")
	ErrCategoryInUse    = errors.New("category still has products")
	ErrProductNotFound  = errors.New("Product not found")
	// ErrUnknownCategory is a bad reference in a product payload, not a missing resource.
	ErrUnknownCategory = domain.NewValidationError("Category not found")

	// Customer and order errors
	ErrCustomerNotFound   = errors.New("Customer not found")
	ErrOrderNotFound      = errors.New("Order not found")
	ErrInvalidTransition  = errors.New("order status transition is not allowed")
	ErrConcurrentUpdate   = errors.New("order was updated by someone else, reload and retry")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
)
