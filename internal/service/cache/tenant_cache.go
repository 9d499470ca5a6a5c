package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kingrain94/restaurant-saas/internal/domain"
)

const keyPrefix = "tenant:"

// TenantCache keeps resolved tenants in Redis so host lookups skip the database.
type TenantCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTenantCache(client *redis.Client, ttl time.Duration) *TenantCache {
	return &TenantCache{client: client, ttl: ttl}
}

func subdomainKey(subdomain string) string {
	return keyPrefix + "subdomain:" + strings.ToLower(subdomain)
}

func domainKey(host string) string {
	return keyPrefix + "domain:" + strings.ToLower(host)
}

func (c *TenantCache) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, bool, error) {
	return c.get(ctx, subdomainKey(subdomain))
}

func (c *TenantCache) GetByDomain(ctx context.Context, host string) (*domain.Tenant, bool, error) {
	return c.get(ctx, domainKey(host))
}

// Set stores the tenant under its subdomain and, when present, its custom domain.
func (c *TenantCache) Set(ctx context.Context, tenant *domain.Tenant) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return fmt.Errorf("failed to marshal tenant: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, subdomainKey(tenant.Subdomain), data, c.ttl)
	if tenant.Domain != nil && *tenant.Domain != "" {
		pipe.Set(ctx, domainKey(*tenant.Domain), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache tenant: %w", err)
	}
	return nil
}

func (c *TenantCache) Invalidate(ctx context.Context, tenant *domain.Tenant) error {
	keys := []string{subdomainKey(tenant.Subdomain)}
	if tenant.Domain != nil && *tenant.Domain != "" {
		keys = append(keys, domainKey(*tenant.Domain))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *TenantCache) get(ctx context.Context, key string) (*domain.Tenant, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var tenant domain.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached tenant: %w", err)
	}
	return &tenant, true, nil
}
