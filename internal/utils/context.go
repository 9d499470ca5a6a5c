package utils

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type ContextKey string

const (
	ClaimsKey ContextKey = "claims"
	// TenantIDKey holds the UUID of the tenant the request resolved to.
	TenantIDKey  ContextKey = "tenant_id"
	SubdomainKey ContextKey = "subdomain"
	UserIDKey    ContextKey = "user_id"
	RoleKey      ContextKey = "role"
	// PlanKey holds the subscription plan of the resolved tenant.
	PlanKey ContextKey = "plan"
)

var (
	ErrNoClaimsInContext   = errors.New("no claims found in context")
	ErrNoTenantIDInContext = errors.New("no tenant_id found in context")
	ErrInvalidTenantIDType = errors.New("tenant_id must be a string")
)

// GetTenantIDFromContext returns the resolved tenant, never the caller's claim.
func GetTenantIDFromContext(c context.Context) (string, error) {
	value := c.Value(TenantIDKey)
	if value == nil {
		return "", ErrNoTenantIDInContext
	}
	tenantID, ok := value.(string)
	if !ok {
		return "", ErrInvalidTenantIDType
	}
	if tenantID == "" {
		return "", ErrNoTenantIDInContext
	}
	return tenantID, nil
}

func GetClaimsFromContext(c context.Context) (jwt.MapClaims, error) {
	claims, ok := c.Value(ClaimsKey).(jwt.MapClaims)
	if !ok {
		return nil, ErrNoClaimsInContext
	}
	return claims, nil
}

// ClaimString reads a string claim, empty when absent.
func ClaimString(claims jwt.MapClaims, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}

func GetRoleFromContext(c context.Context) string {
	role, _ := c.Value(RoleKey).(string)
	return role
}

func GetUserIDFromContext(c context.Context) string {
	id, _ := c.Value(UserIDKey).(string)
	return id
}

// GetUserTenantFromContext returns the tenant claim of the authenticated user.
func GetUserTenantFromContext(c context.Context) string {
	claims, err := GetClaimsFromContext(c)
	if err != nil {
		return ""
	}
	return ClaimString(claims, "tenant_id")
}
