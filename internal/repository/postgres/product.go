package postgres

import (
	"context"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository/tenantdb"
)

var productColumns = []string{
	"name", "description", "price", "images", "category_id", "inventory",
	"availability", "options", "nutritional", "seo", "sort_order", "is_active",
}

type ProductRepository struct {
	writer *tenantdb.TenantDB
	reader *tenantdb.TenantDB
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	category := product.Category
	product.Category = nil
	err := tenantdb.Create(ctx, r.writer, product)
	product.Category = category
	return translateError(err)
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := tenantdb.FindByID[domain.Product](ctx, r.reader, id, tenantdb.Preload("Category"))
	return product, translateError(err)
}

func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, int64, error) {
	total, err := tenantdb.Count[domain.Product](ctx, r.reader, filter)
	if err != nil {
		return nil, 0, err
	}
	products, err := tenantdb.Find[domain.Product](ctx, r.reader, filter,
		tenantdb.Preload("Category"),
		tenantdb.OrderBy(domain.CatalogOrder),
		tenantdb.Limit(page.Limit),
		tenantdb.Offset(page.Offset()),
	)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) Count(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	return tenantdb.Count[domain.Product](ctx, r.reader, filter)
}

func (r *ProductRepository) Update(ctx context.Context, id string, product *domain.Product) (*domain.Product, error) {
	category := product.Category
	product.Category = nil
	defer func() { product.Category = category }()

	if _, err := tenantdb.UpdateByID[domain.Product](ctx, r.writer, id, product, tenantdb.Select(productColumns...)); err != nil {
		return nil, translateError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) UpdateInventory(ctx context.Context, id string, inventory domain.Inventory) error {
	changes := &domain.Product{Inventory: inventory}
	_, err := tenantdb.UpdateByID[domain.Product](ctx, r.writer, id, changes, tenantdb.Select("inventory"))
	return translateError(err)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	deleted, err := tenantdb.DeleteByID[domain.Product](ctx, r.writer, id)
	return deleted, translateError(err)
}
