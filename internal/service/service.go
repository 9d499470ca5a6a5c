package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/internal/utils"
)

//go:generate mockery --name QueueService --output ../mocks
type QueueService interface {
	SendProductIndexMessage(ctx context.Context, tenantID, productID string) error
	SendProductDeleteMessage(ctx context.Context, tenantID, productID string) error
	SendReindexMessage(ctx context.Context, tenantID string) error
	SendOrderCreatedMessage(ctx context.Context, tenantID string, notification *domain.OrderNotification, phone string) error
	SendOrderStatusMessage(ctx context.Context, tenantID string, notification *domain.OrderNotification, phone string, status domain.OrderStatus) error
	SendExportMessage(ctx context.Context, req *domain.ExportRequest) error
}

//go:generate mockery --name EventPublisher --output ../mocks
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event *domain.OrderEvent) error
}

//go:generate mockery --name TenantCache --output ../mocks
type TenantCache interface {
	GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, bool, error)
	GetByDomain(ctx context.Context, host string) (*domain.Tenant, bool, error)
	Set(ctx context.Context, tenant *domain.Tenant) error
	Invalidate(ctx context.Context, tenant *domain.Tenant) error
}

// scoped returns the repositories of the tenant the request resolved to.
func scoped(ctx context.Context, repo repository.PostgresRepository) (repository.ScopedRepository, error) {
	tenantID, err := utils.GetTenantIDFromContext(ctx)
	if err != nil {
		return nil, ErrTenantRequired
	}
	scope, err := repo.Scoped(tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTenantRequired, err)
	}
	return scope, nil
}

// notFound swaps the repository sentinel for the service one.
func notFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
