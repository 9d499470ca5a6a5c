package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kingrain94/restaurant-saas/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrConflict means a guarded update found the record in another state.
	ErrConflict = errors.New("record was modified concurrently")
)

//go:generate mockery --name TenantRepository --output ../mocks
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error)
	GetByDomain(ctx context.Context, host string) (*domain.Tenant, error)
	Update(ctx context.Context, tenant *domain.Tenant) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Tenant, error)
}

//go:generate mockery --name UserRepository --output ../mocks
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error)
}

//go:generate mockery --name CategoryRepository --output ../mocks
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error)
	Update(ctx context.Context, id string, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) (*domain.Category, error)
}

//go:generate mockery --name ProductRepository --output ../mocks
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, int64, error)
	Count(ctx context.Context, filter domain.ProductFilter) (int64, error)
	Update(ctx context.Context, id string, product *domain.Product) (*domain.Product, error)
	UpdateInventory(ctx context.Context, id string, inventory domain.Inventory) error
	Delete(ctx context.Context, id string) (*domain.Product, error)
}

//go:generate mockery --name CustomerRepository --output ../mocks
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	List(ctx context.Context, filter domain.CustomerFilter, page domain.Page) ([]domain.Customer, int64, error)
	Update(ctx context.Context, id string, customer *domain.Customer) (*domain.Customer, error)
	RecordOrder(ctx context.Context, id string, total float64, at time.Time) error
}

//go:generate mockery --name OrderRepository --output ../mocks
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, int64, error)
	ListAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	// UpdateStatus persists status and timeline only if the stored status is still from.
	UpdateStatus(ctx context.Context, order *domain.Order, from domain.OrderStatus) (*domain.Order, error)
	Stats(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderStats, error)
}

// ScopedRepository exposes the tenant-owned collections of one tenant.
//
//go:generate mockery --name ScopedRepository --output ../mocks
type ScopedRepository interface {
	TenantID() string
	Category() CategoryRepository
	Product() ProductRepository
	Customer() CustomerRepository
	Order() OrderRepository
}

//go:generate mockery --name SearchRepository --output ../mocks
type SearchRepository interface {
	IndexProduct(ctx context.Context, product *domain.Product) error
	BulkIndexProducts(ctx context.Context, tenantID string, products []domain.Product) error
	DeleteProduct(ctx context.Context, tenantID, productID string) error
	SearchProducts(ctx context.Context, tenantID string, search domain.ProductSearch) ([]string, int64, error)
	CreateIndex(ctx context.Context, tenantID string) error
	DeleteIndex(ctx context.Context, tenantID string) error
}

//go:generate mockery --name PostgresRepository --output ../mocks
type PostgresRepository interface {
	Tenant() TenantRepository
	User() UserRepository
	// Scoped fails for anything that is not a valid tenant id.
	Scoped(tenantID string) (ScopedRepository, error)
	Migrate(ctx context.Context) error
}

//go:generate mockery --name Repository --output ../mocks
type Repository interface {
	PostgresRepository
	Search() SearchRepository
}
