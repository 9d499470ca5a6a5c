package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/internal/repository/tenantdb"
)

type OrderRepository struct {
	writer *tenantdb.TenantDB
	reader *tenantdb.TenantDB
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	customer := order.Customer
	order.Customer = nil
	err := tenantdb.Create(ctx, r.writer, order)
	order.Customer = customer
	return translateError(err)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, err := tenantdb.FindByID[domain.Order](ctx, r.reader, id, tenantdb.Preload("Customer"))
	return order, translateError(err)
}

func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, int64, error) {
	total, err := tenantdb.Count[domain.Order](ctx, r.reader, filter)
	if err != nil {
		return nil, 0, err
	}
	orders, err := tenantdb.Find[domain.Order](ctx, r.reader, filter,
		tenantdb.Preload("Customer"),
		tenantdb.OrderBy("created_at DESC"),
		tenantdb.Limit(page.Limit),
		tenantdb.Offset(page.Offset()),
	)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) ListAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	return tenantdb.Find[domain.Order](ctx, r.reader, filter,
		tenantdb.Preload("Customer"),
		tenantdb.OrderBy("created_at ASC"),
	)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) (*domain.Order, error) {
	changes := &domain.Order{Status: order.Status, Timeline: order.Timeline}
	n, err := tenantdb.UpdateMany[domain.Order](ctx, r.writer,
		tenantdb.Match{"id": order.ID, "status": from},
		changes,
		tenantdb.Select("status", "timeline"),
	)
	if err != nil {
		return nil, translateError(err)
	}
	if n == 0 {
		if _, err := tenantdb.FindByID[domain.Order](ctx, r.writer, order.ID); err != nil {
			return nil, translateError(err)
		}
		return nil, repository.ErrConflict
	}
	updated, err := tenantdb.FindByID[domain.Order](ctx, r.writer, order.ID, tenantdb.Preload("Customer"))
	return updated, translateError(err)
}

// Stats groups the filtered orders by status. Cancelled orders count but earn nothing.
func (r *OrderRepository) Stats(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderStats, error) {
	return tenantdb.Aggregate[domain.OrderStats](ctx, r.reader, &domain.Order{},
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where(filter.Apply(tx.Session(&gorm.Session{NewDB: true})))
		},
		func(tx *gorm.DB) *gorm.DB {
			return tx.Select("status, COUNT(*) AS count, " + revenueExpr(tx) + " AS revenue").
				Group("status").
				Order("status")
		},
	)
}

func revenueExpr(tx *gorm.DB) string {
	total := "CAST(pricing->>'total' AS NUMERIC)"
	if tx.Dialector.Name() == "sqlite" {
		total = "CAST(json_extract(pricing, '$.total') AS REAL)"
	}
	return "COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 0 ELSE " + total + " END), 0)"
}
