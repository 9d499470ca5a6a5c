package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/service"
	"github.com/kingrain94/restaurant-saas/internal/tenancy"
	"github.com/kingrain94/restaurant-saas/internal/utils"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

// TenantLookup resolves tenants for routing; the tenant service implements it
// on top of the Redis cache.
//
//go:generate mockery --name TenantLookup --output ../mocks
type TenantLookup interface {
	GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error)
	GetByDomain(ctx context.Context, host string) (*domain.Tenant, error)
}

type TenantMiddleware struct {
	resolver  *tenancy.Resolver
	lookup    TenantLookup
	trustEdge bool
	logger    *logger.Logger
}

func NewTenantMiddleware(resolver *tenancy.Resolver, lookup TenantLookup, trustEdge bool, logger *logger.Logger) *TenantMiddleware {
	return &TenantMiddleware{
		resolver:  resolver,
		lookup:    lookup,
		trustEdge: trustEdge,
		logger:    logger,
	}
}

// Detect plays the edge: it resolves the host and overwrites the tenant
// headers, unless an upstream proxy is trusted to have set them already.
func (m *TenantMiddleware) Detect() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.trustEdge {
			m.resolver.Resolve(c.Request.Host).Apply(c.Request.Header)
		}
		info := tenancy.FromHeaders(c.Request.Header)
		c.Set(string(utils.SubdomainKey), info.Subdomain)
		c.Next()
	}
}

// RequireTenant turns the detected subdomain into the tenant's id. Custom
// domains are tried next, then the tenant claim of a user on the main site.
func (m *TenantMiddleware) RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		info := tenancy.FromHeaders(c.Request.Header)

		if !info.IsMainDomain {
			tenant, err := m.lookup.GetBySubdomain(ctx, info.Subdomain)
			if err == nil {
				m.bind(c, tenant)
				return
			}
			if !errors.Is(err, service.ErrTenantNotFound) {
				m.fail(c, err)
				return
			}
		}

		tenant, err := m.lookup.GetByDomain(ctx, hostOnly(c.Request.Host))
		if err == nil {
			m.bind(c, tenant)
			return
		}
		if !errors.Is(err, service.ErrTenantNotFound) {
			m.fail(c, err)
			return
		}

		if !info.IsMainDomain {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewError(service.ErrTenantNotFound.Error()))
			return
		}

		if claims, ok := claimsOf(c); ok {
			if tenantID := utils.ClaimString(claims, "tenant_id"); tenantID != "" {
				c.Set(string(utils.TenantIDKey), tenantID)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewError("Tenant could not be determined"))
	}
}

func (m *TenantMiddleware) bind(c *gin.Context, tenant *domain.Tenant) {
	c.Set(string(utils.TenantIDKey), tenant.ID)
	c.Set(string(utils.PlanKey), string(tenant.Subscription.Plan))
	c.Next()
}

func (m *TenantMiddleware) fail(c *gin.Context, err error) {
	m.logger.Error("Tenant lookup failed", err, zap.String("host", c.Request.Host))
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewError("Tenant lookup is unavailable"))
}

func hostOnly(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
