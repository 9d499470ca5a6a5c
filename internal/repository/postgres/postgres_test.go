package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
)

type PostgresRepositoryTestSuite struct {
	suite.Suite
	ctx  context.Context
	repo repository.PostgresRepository
	a    repository.ScopedRepository
	b    repository.ScopedRepository
}

func TestPostgresRepository(t *testing.T) {
	suite.Run(t, new(PostgresRepositoryTestSuite))
}

func (s *PostgresRepositoryTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.ctx = context.Background()
	s.repo = NewPostgresRepositoryFromDB(db, db)
	s.Require().NoError(s.repo.Migrate(s.ctx))

	s.a, err = s.repo.Scoped(uuid.NewString())
	s.Require().NoError(err)
	s.b, err = s.repo.Scoped(uuid.NewString())
	s.Require().NoError(err)
}

func (s *PostgresRepositoryTestSuite) newTenant(subdomain string) *domain.Tenant {
	t := &domain.Tenant{Name: subdomain, Subdomain: subdomain}
	t.Settings.Business.Cuisine = "Lebanese"
	t.ApplyDefaults()
	created, err := s.repo.Tenant().Create(s.ctx, t)
	s.Require().NoError(err)
	return created
}

func (s *PostgresRepositoryTestSuite) newOrder(scope repository.ScopedRepository, status domain.OrderStatus, total float64) *domain.Order {
	customer := &domain.Customer{Name: "Layla", Phone: "+971501234567"}
	s.Require().NoError(scope.Customer().Create(s.ctx, customer))

	order := &domain.Order{
		OrderNumber: "ORD-" + uuid.NewString()[:8],
		CustomerID:  customer.ID,
		Type:        domain.OrderTypePickup,
		Status:      status,
		Pricing:     domain.Pricing{Subtotal: total, Total: total},
		Items:       []domain.OrderItem{{ProductID: "p", ProductName: "Hummus", Quantity: 1, UnitPrice: total, Subtotal: total}},
	}
	order.AppendTimeline(status, "", time.Now())
	s.Require().NoError(scope.Order().Create(s.ctx, order))
	return order
}

func (s *PostgresRepositoryTestSuite) TestScoped_RejectsInvalidTenant() {
	scope, err := s.repo.Scoped("not-a-tenant")
	s.Nil(scope)
	s.Error(err)
}

func (s *PostgresRepositoryTestSuite) TestTenant_LookupsAndDuplicate() {
	created := s.newTenant("shawarma-house")

	bySub, err := s.repo.Tenant().GetBySubdomain(s.ctx, "Shawarma-House")
	s.Require().NoError(err)
	s.Equal(created.ID, bySub.ID)
	s.Equal(domain.DefaultPrimaryColor, bySub.Settings.Branding.PrimaryColor)

	_, err = s.repo.Tenant().GetBySubdomain(s.ctx, "missing")
	s.ErrorIs(err, repository.ErrNotFound)

	dup := &domain.Tenant{Name: "again", Subdomain: "shawarma-house"}
	_, err = s.repo.Tenant().Create(s.ctx, dup)
	s.ErrorIs(err, repository.ErrDuplicate)
}

func (s *PostgresRepositoryTestSuite) TestMalformedIDsAreNotFound() {
	s.newTenant("falafel-corner")

	_, err := s.repo.Tenant().GetByID(s.ctx, "abc")
	s.ErrorIs(err, repository.ErrNotFound)
	s.ErrorIs(s.repo.Tenant().Delete(s.ctx, "abc"), repository.ErrNotFound)

	_, err = s.repo.User().GetByID(s.ctx, "not-a-uuid")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresRepositoryTestSuite) TestTenant_GetByDomain() {
	t := s.newTenant("sushi")
	host := "order.sushi.ae"
	t.Domain = &host
	s.Require().NoError(s.repo.Tenant().Update(s.ctx, t))

	found, err := s.repo.Tenant().GetByDomain(s.ctx, "ORDER.sushi.ae")
	s.Require().NoError(err)
	s.Equal(t.ID, found.ID)
}

func (s *PostgresRepositoryTestSuite) TestUser_ListByTenant() {
	tenantID := s.a.TenantID()
	s.Require().NoError(s.repo.User().Create(s.ctx, &domain.User{Email: "Owner@Example.com", Role: domain.RoleTenantAdmin, TenantID: &tenantID, IsActive: true}))
	s.Require().NoError(s.repo.User().Create(s.ctx, &domain.User{Email: "root@example.com", Role: domain.RoleSuperAdmin, IsActive: true}))

	users, total, err := s.repo.User().List(s.ctx, domain.UserFilter{TenantID: tenantID})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("owner@example.com", users[0].Email)

	byEmail, err := s.repo.User().GetByEmail(s.ctx, "OWNER@example.com")
	s.Require().NoError(err)
	s.Equal(users[0].ID, byEmail.ID)
}

func (s *PostgresRepositoryTestSuite) TestCategory_IsolatedBetweenTenants() {
	c := &domain.Category{Name: "Mezze", IsActive: true}
	s.Require().NoError(s.a.Category().Create(s.ctx, c))

	_, err := s.b.Category().GetByID(s.ctx, c.ID)
	s.ErrorIs(err, repository.ErrNotFound)

	_, err = s.b.Category().Update(s.ctx, c.ID, &domain.Category{Name: "Stolen"})
	s.ErrorIs(err, repository.ErrNotFound)

	_, err = s.b.Category().Delete(s.ctx, c.ID)
	s.ErrorIs(err, repository.ErrNotFound)

	got, err := s.a.Category().GetByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Mezze", got.Name)
}

func (s *PostgresRepositoryTestSuite) TestCategory_UpdateCanDeactivate() {
	c := &domain.Category{Name: "Mezze", IsActive: true, SortOrder: 2}
	s.Require().NoError(s.a.Category().Create(s.ctx, c))

	c.IsActive = false
	c.SortOrder = 0
	updated, err := s.a.Category().Update(s.ctx, c.ID, c)
	s.Require().NoError(err)
	s.False(updated.IsActive)
	s.Zero(updated.SortOrder)

	active := true
	list, err := s.a.Category().List(s.ctx, domain.CategoryFilter{Active: &active})
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *PostgresRepositoryTestSuite) TestProduct_ListPreloadsCategoryAndPages() {
	c := &domain.Category{Name: "Grills", IsActive: true}
	s.Require().NoError(s.a.Category().Create(s.ctx, c))
	for i := 0; i < 3; i++ {
		p := &domain.Product{Name: "Kebab", Price: 30, CategoryID: c.ID, SortOrder: i, IsActive: true}
		p.ApplyDefaults()
		s.Require().NoError(s.a.Product().Create(s.ctx, p))
	}

	products, total, err := s.a.Product().List(s.ctx, domain.ProductFilter{CategoryID: c.ID}, domain.NewPage(1, 2))
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(products, 2)
	s.Require().NotNil(products[0].Category)
	s.Equal("Grills", products[0].Category.Name)
	s.Equal(0, products[0].SortOrder)

	n, err := s.b.Product().Count(s.ctx, domain.ProductFilter{})
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *PostgresRepositoryTestSuite) TestProduct_UpdateInventory() {
	c := &domain.Category{Name: "Drinks", IsActive: true}
	s.Require().NoError(s.a.Category().Create(s.ctx, c))
	p := &domain.Product{Name: "Ayran", Price: 8, CategoryID: c.ID, IsActive: true,
		Inventory: domain.Inventory{TrackStock: true, StockQuantity: 10}}
	p.ApplyDefaults()
	s.Require().NoError(s.a.Product().Create(s.ctx, p))

	s.Require().NoError(s.a.Product().UpdateInventory(s.ctx, p.ID, domain.Inventory{TrackStock: true, StockQuantity: 7, LowStockAlert: 5}))

	got, err := s.a.Product().GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(7, got.Inventory.StockQuantity)
	s.Equal("Ayran", got.Name)

	s.ErrorIs(s.b.Product().UpdateInventory(s.ctx, p.ID, domain.Inventory{}), repository.ErrNotFound)
}

func (s *PostgresRepositoryTestSuite) TestCustomer_FindByPhoneAndRecordOrder() {
	c := &domain.Customer{Name: "Omar", Phone: "+971509999999", Preferences: domain.DefaultPreferences()}
	s.Require().NoError(s.a.Customer().Create(s.ctx, c))

	_, err := s.b.Customer().FindByPhone(s.ctx, c.Phone)
	s.ErrorIs(err, repository.ErrNotFound)

	at := time.Now().UTC().Truncate(time.Second)
	s.Require().NoError(s.a.Customer().RecordOrder(s.ctx, c.ID, 42.5, at))
	s.Require().NoError(s.a.Customer().RecordOrder(s.ctx, c.ID, 10, at))

	got, err := s.a.Customer().FindByPhone(s.ctx, c.Phone)
	s.Require().NoError(err)
	s.Equal(2, got.TotalOrders)
	s.InDelta(52.5, got.TotalSpent, 0.001)
	s.Require().NotNil(got.LastOrderAt)
	s.Equal(s.a.TenantID(), got.TenantID)
}

func (s *PostgresRepositoryTestSuite) TestOrder_UpdateStatusIsGuarded() {
	order := s.newOrder(s.a, domain.OrderPending, 50)

	order.AppendTimeline(domain.OrderConfirmed, "", time.Now())
	updated, err := s.a.Order().UpdateStatus(s.ctx, order, domain.OrderPending)
	s.Require().NoError(err)
	s.Equal(domain.OrderConfirmed, updated.Status)
	s.Len(updated.Timeline, 2)
	s.Require().NotNil(updated.Customer)

	// A second writer still believing the order is pending loses.
	stale := *order
	stale.AppendTimeline(domain.OrderCancelled, "", time.Now())
	_, err = s.a.Order().UpdateStatus(s.ctx, &stale, domain.OrderPending)
	s.ErrorIs(err, repository.ErrConflict)

	_, err = s.b.Order().UpdateStatus(s.ctx, order, domain.OrderConfirmed)
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresRepositoryTestSuite) TestOrder_StatsPerTenant() {
	s.newOrder(s.a, domain.OrderPending, 20)
	s.newOrder(s.a, domain.OrderPending, 30)
	s.newOrder(s.a, domain.OrderCancelled, 99)
	s.newOrder(s.b, domain.OrderPending, 1000)

	stats, err := s.a.Order().Stats(s.ctx, domain.OrderFilter{})
	s.Require().NoError(err)
	s.Require().Len(stats, 2)

	byStatus := map[domain.OrderStatus]domain.OrderStats{}
	for _, st := range stats {
		byStatus[st.Status] = st
	}
	s.Equal(int64(2), byStatus[domain.OrderPending].Count)
	s.InDelta(50, byStatus[domain.OrderPending].Revenue, 0.001)
	s.Equal(int64(1), byStatus[domain.OrderCancelled].Count)
	s.Zero(byStatus[domain.OrderCancelled].Revenue)

	filtered, err := s.a.Order().Stats(s.ctx, domain.OrderFilter{Status: domain.OrderCancelled})
	s.Require().NoError(err)
	s.Len(filtered, 1)
}

func (s *PostgresRepositoryTestSuite) TestOrder_ListNewestFirst() {
	first := s.newOrder(s.a, domain.OrderPending, 10)
	time.Sleep(5 * time.Millisecond)
	second := s.newOrder(s.a, domain.OrderPending, 10)

	orders, total, err := s.a.Order().List(s.ctx, domain.OrderFilter{}, domain.NewPage(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal(second.ID, orders[0].ID)
	s.Equal(first.ID, orders[1].ID)

	all, err := s.a.Order().ListAll(s.ctx, domain.OrderFilter{})
	s.Require().NoError(err)
	s.Equal(first.ID, all[0].ID)
}
