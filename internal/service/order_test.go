package service

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/mocks"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type OrderServiceTestSuite struct {
	suite.Suite
	m             *scopeMocks
	mockQueue     *mocks.QueueService
	mockPublisher *mocks.EventPublisher
	service       *OrderService
	now           time.Time
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.m = newScopeMocks()
	s.mockQueue = new(mocks.QueueService)
	s.mockPublisher = new(mocks.EventPublisher)
	s.now = time.Date(2025, 7, 14, 12, 30, 0, 0, time.UTC)

	cfg := &config.Config{TaxRate: 0.05, DeliveryFee: 10}
	s.service = NewOrderService(s.m.repo, s.mockQueue, s.mockPublisher, cfg, logger.NewNopLogger())
	s.service.now = func() time.Time { return s.now }
}

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) shawarma() *domain.Product {
	return &domain.Product{
		Base:         domain.Base{ID: "prod-1"},
		Name:         "Chicken Shawarma",
		Price:        20,
		IsActive:     true,
		Availability: domain.Availability{IsAvailable: true},
		Inventory:    domain.Inventory{TrackStock: true, StockQuantity: 10, LowStockAlert: 5},
		Options: []domain.ProductOption{{
			Name:     "Size",
			Type:     domain.OptionSingle,
			Required: true,
			Choices:  []domain.OptionChoice{{Name: "Regular"}, {Name: "Large", Price: 5}},
		}},
	}
}

func (s *OrderServiceTestSuite) deliveryRequest(lines ...dto.OrderItemRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Customer: dto.OrderCustomerRequest{Name: "Layla Haddad", Phone: "0501234567"},
		Items:    lines,
		Type:     domain.OrderTypeDelivery,
		Delivery: &domain.DeliveryAddress{Street: "Al Wasl Rd 12", City: "Dubai"},
	}
}

func (s *OrderServiceTestSuite) TestCreate_PricesFromCatalog() {
	// Arrange
	ctx := tenantContext()
	tenant := sampleTenant()
	s.m.tenant.On("GetByID", ctx, testTenantID).Return(tenant, nil)
	s.m.product.On("GetByID", ctx, "prod-1").Return(s.shawarma(), nil).Once()
	s.m.customer.On("FindByPhone", ctx, "0501234567").Return(nil, repository.ErrNotFound)
	s.m.customer.On("Create", ctx, mock.MatchedBy(func(c *domain.Customer) bool {
		return c.Phone == "0501234567" && len(c.Addresses) == 1 && c.Addresses[0].Country == domain.DefaultCountry
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Customer).ID = "cust-1"
	}).Return(nil)
	s.m.order.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil)
	s.m.product.On("UpdateInventory", ctx, "prod-1", domain.Inventory{TrackStock: true, StockQuantity: 8, LowStockAlert: 5}).Return(nil)
	s.m.customer.On("RecordOrder", ctx, "cust-1", 62.5, s.now).Return(nil)
	s.mockQueue.On("SendOrderCreatedMessage", ctx, testTenantID, mock.MatchedBy(func(n *domain.OrderNotification) bool {
		return n.Restaurant.Name == "Beirut Bites" && n.Customer.Phone == "0501234567" && n.Delivery != nil
	}), "+971501234567").Return(nil)
	s.mockPublisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e *domain.OrderEvent) bool {
		return e.Status == domain.OrderPending && e.Total == 62.5
	})).Return(nil)

	req := s.deliveryRequest(dto.OrderItemRequest{
		ProductID: "prod-1",
		Quantity:  2,
		Options:   []dto.SelectedOptionRequest{{OptionName: "Size", ChoiceName: "Large"}},
	})

	// Act
	order, err := s.service.Create(ctx, req)

	// Assert
	s.Require().NoError(err)
	s.Equal(25.0, order.Items[0].UnitPrice)
	s.Equal(50.0, order.Pricing.Subtotal)
	s.Equal(10.0, order.Pricing.DeliveryFee)
	s.Equal(2.5, order.Pricing.Tax)
	s.Equal(62.5, order.Pricing.Total)
	s.Equal(domain.PaymentCash, order.Payment.Method)
	s.Equal(domain.OrderPending, order.Status)
	s.Len(order.Timeline, 1)
	s.Equal("cust-1", order.CustomerID)
	s.Regexp(regexp.MustCompile(`^ORD-20250714-[0-9A-F]{6}$`), order.OrderNumber)
	s.m.product.AssertExpectations(s.T())
	s.m.customer.AssertExpectations(s.T())
	s.mockQueue.AssertExpectations(s.T())
	s.mockPublisher.AssertExpectations(s.T())
}

func (s *OrderServiceTestSuite) TestCreate_RequiredOptionMissing() {
	ctx := tenantContext()
	s.m.tenant.On("GetByID", ctx, testTenantID).Return(sampleTenant(), nil)
	s.m.product.On("GetByID", ctx, "prod-1").Return(s.shawarma(), nil)

	_, err := s.service.Create(ctx, s.deliveryRequest(dto.OrderItemRequest{ProductID: "prod-1", Quantity: 1}))

	var validation *domain.ValidationError
	s.ErrorAs(err, &validation)
	s.m.order.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *OrderServiceTestSuite) TestCreate_StockCountsAcrossLines() {
	// Arrange
	ctx := tenantContext()
	product := s.shawarma()
	product.Inventory.StockQuantity = 1
	s.m.tenant.On("GetByID", ctx, testTenantID).Return(sampleTenant(), nil)
	s.m.product.On("GetByID", ctx, "prod-1").Return(product, nil).Once()
	line := dto.OrderItemRequest{
		ProductID: "prod-1",
		Quantity:  1,
		Options:   []dto.SelectedOptionRequest{{OptionName: "Size", ChoiceName: "Regular"}},
	}

	// Act
	_, err := s.service.Create(ctx, s.deliveryRequest(line, line))

	// Assert
	s.ErrorIs(err, ErrInsufficientStock)
	s.m.product.AssertExpectations(s.T())
}

func (s *OrderServiceTestSuite) TestCreate_SuspendedTenant() {
	ctx := tenantContext()
	tenant := sampleTenant()
	tenant.Subscription.Status = domain.SubscriptionSuspended
	s.m.tenant.On("GetByID", ctx, testTenantID).Return(tenant, nil)

	_, err := s.service.Create(ctx, s.deliveryRequest(dto.OrderItemRequest{ProductID: "prod-1", Quantity: 1}))

	var validation *domain.ValidationError
	s.ErrorAs(err, &validation)
}

func (s *OrderServiceTestSuite) TestCreate_DeliveryNeedsAddress() {
	req := s.deliveryRequest(dto.OrderItemRequest{ProductID: "prod-1", Quantity: 1})
	req.Delivery = nil

	_, err := s.service.Create(tenantContext(), req)

	var validation *domain.ValidationError
	s.ErrorAs(err, &validation)
}

func (s *OrderServiceTestSuite) pendingOrder() *domain.Order {
	return &domain.Order{
		Base:        domain.Base{ID: "order-1"},
		TenantOwned: domain.TenantOwned{TenantID: testTenantID},
		OrderNumber: "ORD-20250714-ABC123",
		Type:        domain.OrderTypePickup,
		Status:      domain.OrderPending,
		Timeline:    []domain.TimelineEntry{{Status: domain.OrderPending, Timestamp: s.now.Add(-time.Hour)}},
		Pricing:     domain.Pricing{Total: 42},
	}
}

func (s *OrderServiceTestSuite) TestUpdateStatus_InvalidTransition() {
	ctx := tenantContext()
	s.m.order.On("GetByID", ctx, "order-1").Return(s.pendingOrder(), nil)

	_, err := s.service.UpdateStatus(ctx, "order-1", dto.UpdateOrderStatusRequest{Status: domain.OrderDelivered})

	s.ErrorIs(err, ErrInvalidTransition)
	s.m.order.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (s *OrderServiceTestSuite) TestUpdateStatus_UnknownStatus() {
	_, err := s.service.UpdateStatus(tenantContext(), "order-1", dto.UpdateOrderStatusRequest{Status: "eaten"})

	var validation *domain.ValidationError
	s.ErrorAs(err, &validation)
}

func (s *OrderServiceTestSuite) TestUpdateStatus_ConcurrentChange() {
	ctx := tenantContext()
	s.m.order.On("GetByID", ctx, "order-1").Return(s.pendingOrder(), nil)
	s.m.order.On("UpdateStatus", ctx, mock.AnythingOfType("*domain.Order"), domain.OrderPending).Return(nil, repository.ErrConflict)

	_, err := s.service.UpdateStatus(ctx, "order-1", dto.UpdateOrderStatusRequest{Status: domain.OrderConfirmed})

	s.ErrorIs(err, ErrConcurrentUpdate)
	s.mockPublisher.AssertNotCalled(s.T(), "PublishOrderEvent", mock.Anything, mock.Anything)
}

func (s *OrderServiceTestSuite) TestUpdateStatus_NotifiesCustomer() {
	// Arrange
	ctx := tenantContext()
	updated := s.pendingOrder()
	updated.AppendTimeline(domain.OrderConfirmed, "", s.now)
	updated.Customer = &domain.Customer{Name: "Layla", Phone: "0501234567", Preferences: domain.DefaultPreferences()}

	s.m.order.On("GetByID", ctx, "order-1").Return(s.pendingOrder(), nil)
	s.m.order.On("UpdateStatus", ctx, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Status == domain.OrderConfirmed && len(o.Timeline) == 2 && o.Timeline[1].Note == "on it"
	}), domain.OrderPending).Return(updated, nil)
	s.m.tenant.On("GetByID", ctx, testTenantID).Return(sampleTenant(), nil)
	s.mockQueue.On("SendOrderStatusMessage", ctx, testTenantID, mock.AnythingOfType("*domain.OrderNotification"), "0501234567", domain.OrderConfirmed).Return(nil)
	s.mockPublisher.On("PublishOrderEvent", ctx, mock.MatchedBy(func(e *domain.OrderEvent) bool {
		return e.OrderID == "order-1" && e.Status == domain.OrderConfirmed
	})).Return(nil)

	// Act
	order, err := s.service.UpdateStatus(ctx, "order-1", dto.UpdateOrderStatusRequest{Status: domain.OrderConfirmed, Note: " on it "})

	// Assert
	s.NoError(err)
	s.Equal(domain.OrderConfirmed, order.Status)
	s.mockQueue.AssertExpectations(s.T())
	s.mockPublisher.AssertExpectations(s.T())
}

func (s *OrderServiceTestSuite) TestUpdateStatus_CancelDoesNotNotify() {
	ctx := tenantContext()
	updated := s.pendingOrder()
	updated.AppendTimeline(domain.OrderCancelled, "", s.now)
	updated.Customer = &domain.Customer{Phone: "0501234567", Preferences: domain.DefaultPreferences()}

	s.m.order.On("GetByID", ctx, "order-1").Return(s.pendingOrder(), nil)
	s.m.order.On("UpdateStatus", ctx, mock.Anything, domain.OrderPending).Return(updated, nil)
	s.mockPublisher.On("PublishOrderEvent", ctx, mock.Anything).Return(nil)

	_, err := s.service.UpdateStatus(ctx, "order-1", dto.UpdateOrderStatusRequest{Status: domain.OrderCancelled})

	s.NoError(err)
	s.mockQueue.AssertNotCalled(s.T(), "SendOrderStatusMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *OrderServiceTestSuite) TestList_RejectsUnknownStatus() {
	_, _, err := s.service.List(tenantContext(), dto.ListOrdersQuery{Status: "lost"})

	var validation *domain.ValidationError
	s.ErrorAs(err, &validation)
}

func (s *OrderServiceTestSuite) TestStats() {
	ctx := tenantContext()
	s.m.order.On("Stats", ctx, domain.OrderFilter{}).Return([]domain.OrderStats{
		{Status: domain.OrderDelivered, Count: 3, Revenue: 120},
		{Status: domain.OrderCancelled, Count: 1},
	}, nil)

	stats, err := s.service.Stats(ctx, dto.ListOrdersQuery{})

	s.NoError(err)
	s.Equal(int64(4), stats.TotalOrders)
	s.Equal(120.0, stats.TotalRevenue)
}

func (s *OrderServiceTestSuite) TestNewOrderNumber_Unique() {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n := newOrderNumber(s.now)
		s.False(seen[n], fmt.Sprintf("duplicate order number %s", n))
		seen[n] = true
	}
}
