package postgres

import (
	"context"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository/tenantdb"
)

var categoryColumns = []string{"name", "description", "image", "sort_order", "is_active"}

type CategoryRepository struct {
	writer *tenantdb.TenantDB
	reader *tenantdb.TenantDB
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return translateError(tenantdb.Create(ctx, r.writer, category))
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	category, err := tenantdb.FindByID[domain.Category](ctx, r.reader, id)
	return category, translateError(err)
}

func (r *CategoryRepository) List(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	return tenantdb.Find[domain.Category](ctx, r.reader, filter, tenantdb.OrderBy(domain.CatalogOrder))
}

func (r *CategoryRepository) Update(ctx context.Context, id string, category *domain.Category) (*domain.Category, error) {
	updated, err := tenantdb.UpdateByID[domain.Category](ctx, r.writer, id, category, tenantdb.Select(categoryColumns...))
	return updated, translateError(err)
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) (*domain.Category, error) {
	deleted, err := tenantdb.DeleteByID[domain.Category](ctx, r.writer, id)
	return deleted, translateError(err)
}
