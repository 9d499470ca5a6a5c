package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository/tenantdb"
)

var customerColumns = []string{"email", "phone", "name", "addresses", "preferences"}

type CustomerRepository struct {
	writer *tenantdb.TenantDB
	reader *tenantdb.TenantDB
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return translateError(tenantdb.Create(ctx, r.writer, customer))
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := tenantdb.FindByID[domain.Customer](ctx, r.reader, id)
	return customer, translateError(err)
}

// FindByPhone reads from the writer so a checkout sees a customer created a moment ago.
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	customer, err := tenantdb.FindOne[domain.Customer](ctx, r.writer, tenantdb.Match{"phone": phone})
	return customer, translateError(err)
}

func (r *CustomerRepository) List(ctx context.Context, filter domain.CustomerFilter, page domain.Page) ([]domain.Customer, int64, error) {
	total, err := tenantdb.Count[domain.Customer](ctx, r.reader, filter)
	if err != nil {
		return nil, 0, err
	}
	customers, err := tenantdb.Find[domain.Customer](ctx, r.reader, filter,
		tenantdb.OrderBy("created_at DESC"),
		tenantdb.Limit(page.Limit),
		tenantdb.Offset(page.Offset()),
	)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, id string, customer *domain.Customer) (*domain.Customer, error) {
	updated, err := tenantdb.UpdateByID[domain.Customer](ctx, r.writer, id, customer, tenantdb.Select(customerColumns...))
	return updated, translateError(err)
}

func (r *CustomerRepository) RecordOrder(ctx context.Context, id string, total float64, at time.Time) error {
	changes := map[string]any{
		"total_orders":  gorm.Expr("total_orders + ?", 1),
		"total_spent":   gorm.Expr("total_spent + ?", total),
		"last_order_at": at,
	}
	_, err := tenantdb.UpdateByID[domain.Customer](ctx, r.writer, id, changes)
	return translateError(err)
}
