package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
)

type postgresRepository struct {
	writerDB   *gorm.DB
	readerDB   *gorm.DB
	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository
}

func NewPostgresRepository(dbConnections *config.DatabaseConnections) repository.PostgresRepository {
	return NewPostgresRepositoryFromDB(dbConnections.Writer, dbConnections.Reader)
}

// NewPostgresRepositoryFromDB is used when both roles share one pool, as in tests.
func NewPostgresRepositoryFromDB(writerDB, readerDB *gorm.DB) repository.PostgresRepository {
	return &postgresRepository{
		writerDB:   writerDB,
		readerDB:   readerDB,
		tenantRepo: NewTenantRepository(writerDB, readerDB),
		userRepo:   NewUserRepository(writerDB, readerDB),
	}
}

func (r *postgresRepository) Tenant() repository.TenantRepository {
	return r.tenantRepo
}

func (r *postgresRepository) User() repository.UserRepository {
	return r.userRepo
}

func (r *postgresRepository) Scoped(tenantID string) (repository.ScopedRepository, error) {
	writer, reader, err := tenantScopes(r.writerDB, r.readerDB, tenantID)
	if err != nil {
		return nil, err
	}
	return &scopedRepository{
		tenantID: writer.TenantID(),
		category: &CategoryRepository{writer: writer, reader: reader},
		product:  &ProductRepository{writer: writer, reader: reader},
		customer: &CustomerRepository{writer: writer, reader: reader},
		order:    &OrderRepository{writer: writer, reader: reader},
	}, nil
}

func (r *postgresRepository) Migrate(ctx context.Context) error {
	return r.writerDB.WithContext(ctx).AutoMigrate(
		&domain.Tenant{},
		&domain.User{},
		&domain.Category{},
		&domain.Product{},
		&domain.Customer{},
		&domain.Order{},
	)
}

type scopedRepository struct {
	tenantID string
	category repository.CategoryRepository
	product  repository.ProductRepository
	customer repository.CustomerRepository
	order    repository.OrderRepository
}

func (s *scopedRepository) TenantID() string {
	return s.tenantID
}

func (s *scopedRepository) Category() repository.CategoryRepository {
	return s.category
}

func (s *scopedRepository) Product() repository.ProductRepository {
	return s.product
}

func (s *scopedRepository) Customer() repository.CustomerRepository {
	return s.customer
}

func (s *scopedRepository) Order() repository.OrderRepository {
	return s.order
}
