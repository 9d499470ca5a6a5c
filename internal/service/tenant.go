package service

import (
	"context"
	"errors"
	"time"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/internal/utils"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type TenantService struct {
	repo   repository.Repository
	cache  TenantCache
	logger *logger.Logger
}

func NewTenantService(repo repository.Repository, cache TenantCache, logger *logger.Logger) *TenantService {
	return &TenantService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *TenantService) Create(ctx context.Context, req dto.CreateTenantRequest) (*domain.Tenant, error) {
	tenant := req.ToTenant()
	tenant.ApplyDefaults()
	if err := tenant.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Tenant().Create(ctx, tenant)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrSubdomainTaken
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TenantService) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	tenant, err := s.repo.Tenant().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTenantNotFound)
	}
	return tenant, nil
}

// GetBySubdomain serves host resolution, so it reads through the cache.
func (s *TenantService) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	return s.lookup(ctx, subdomain, s.cacheGetBySubdomain, s.repo.Tenant().GetBySubdomain)
}

func (s *TenantService) GetByDomain(ctx context.Context, host string) (*domain.Tenant, error) {
	return s.lookup(ctx, host, s.cacheGetByDomain, s.repo.Tenant().GetByDomain)
}

type tenantLookup func(ctx context.Context, key string) (*domain.Tenant, error)

func (s *TenantService) lookup(ctx context.Context, key string, fromCache tenantLookup, fromDB tenantLookup) (*domain.Tenant, error) {
	if tenant, err := fromCache(ctx, key); tenant != nil || err != nil {
		if err == nil {
			return tenant, nil
		}
		s.logger.Error("Tenant cache read failed", err)
	}

	tenant, err := fromDB(ctx, key)
	if err != nil {
		return nil, notFound(err, ErrTenantNotFound)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tenant); err != nil {
			s.logger.Error("Tenant cache write failed", err)
		}
	}
	return tenant, nil
}

func (s *TenantService) cacheGetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	if s.cache == nil {
		return nil, nil
	}
	tenant, _, err := s.cache.GetBySubdomain(ctx, subdomain)
	return tenant, err
}

func (s *TenantService) cacheGetByDomain(ctx context.Context, host string) (*domain.Tenant, error) {
	if s.cache == nil {
		return nil, nil
	}
	tenant, _, err := s.cache.GetByDomain(ctx, host)
	return tenant, err
}

// Update rejects any attempt to change the subdomain, which routing depends on.
// The subscription is billing state and only platform operators may touch it.
func (s *TenantService) Update(ctx context.Context, id string, req dto.UpdateTenantRequest) (*domain.Tenant, error) {
	if req.Subscription != nil && utils.GetRoleFromContext(ctx) != string(domain.RoleSuperAdmin) {
		return nil, ErrTenantForbidden
	}

	tenant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Subdomain != nil && *req.Subdomain != tenant.Subdomain {
		return nil, ErrSubdomainChanged
	}

	previous := *tenant
	req.ApplyTo(tenant)
	tenant.ApplyDefaults()
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	tenant.UpdatedAt = time.Now()

	if err := s.repo.Tenant().Update(ctx, tenant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.NewValidationError("domain is already used by another tenant")
		}
		return nil, notFound(err, ErrTenantNotFound)
	}

	s.invalidate(ctx, &previous)
	return tenant, nil
}

func (s *TenantService) Delete(ctx context.Context, id string) error {
	tenant, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Tenant().Delete(ctx, id); err != nil {
		return notFound(err, ErrTenantNotFound)
	}

	s.invalidate(ctx, tenant)
	if err := s.repo.Search().DeleteIndex(ctx, id); err != nil {
		s.logger.Error("Failed to delete tenant product index", err)
	}
	return nil
}

func (s *TenantService) List(ctx context.Context) ([]domain.Tenant, error) {
	return s.repo.Tenant().List(ctx)
}

func (s *TenantService) invalidate(ctx context.Context, tenant *domain.Tenant) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tenant); err != nil {
		s.logger.Error("Tenant cache invalidation failed", err)
	}
}
