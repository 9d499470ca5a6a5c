package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type OrderService struct {
	repo        repository.Repository
	queue       QueueService
	publisher   EventPublisher
	taxRate     float64
	deliveryFee float64
	logger      *logger.Logger
	now         func() time.Time
}

func NewOrderService(repo repository.Repository, queue QueueService, publisher EventPublisher, cfg *config.Config, logger *logger.Logger) *OrderService {
	return &OrderService{
		repo:        repo,
		queue:       queue,
		publisher:   publisher,
		taxRate:     cfg.TaxRate,
		deliveryFee: cfg.DeliveryFee,
		logger:      logger,
		now:         time.Now,
	}
}

// Create places a storefront order. Prices come from the catalog, never from
// the client, and the customer is matched by phone within the tenant.
func (s *OrderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	tenant, err := s.repo.Tenant().GetByID(ctx, scope.TenantID())
	if err != nil {
		return nil, notFound(err, ErrTenantNotFound)
	}
	if !tenant.IsActive() {
		return nil, domain.NewValidationError("restaurant is not accepting orders")
	}

	items, products, err := s.priceItems(ctx, scope, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &domain.Order{
		OrderNumber: newOrderNumber(now),
		Items:       items,
		Type:        req.Type,
		Notes:       strings.TrimSpace(req.Notes),
		Pickup:      req.Pickup,
	}
	if req.Type == domain.OrderTypeDelivery {
		order.Delivery = &domain.DeliveryInfo{Address: *req.Delivery, Fee: s.deliveryFee}
	}
	order.Pricing = s.price(items, order.Delivery)
	method := req.PaymentMethod
	if method == "" {
		method = domain.PaymentCash
	}
	order.Payment = domain.Payment{Method: method, Status: domain.PaymentPending, Amount: order.Pricing.Total}
	order.AppendTimeline(domain.OrderPending, "Order placed", now)

	customer, err := s.upsertCustomer(ctx, scope, req)
	if err != nil {
		return nil, err
	}
	order.CustomerID = customer.ID

	if err := scope.Order().Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}
	order.Customer = customer

	s.decrementStock(ctx, scope, products, req.Items)
	if err := scope.Customer().RecordOrder(ctx, customer.ID, order.Pricing.Total, now); err != nil {
		s.logger.Error("Failed to update customer stats", err, zap.String("customer_id", customer.ID))
	}

	if phone := tenant.Settings.Contact.Phone; phone != "" {
		notification := domain.NewOrderNotification(order, tenant)
		if err := s.queue.SendOrderCreatedMessage(ctx, tenant.ID, notification, phone); err != nil {
			s.logger.Error("Failed to enqueue order notification", err, zap.String("order", order.OrderNumber))
		}
	}
	s.publish(ctx, order)
	return order, nil
}

func validateOrderRequest(req dto.CreateOrderRequest) error {
	switch req.Type {
	case domain.OrderTypePickup:
	case domain.OrderTypeDelivery:
		if req.Delivery == nil || strings.TrimSpace(req.Delivery.Street) == "" || strings.TrimSpace(req.Delivery.City) == "" {
			return domain.NewValidationError("delivery orders need a street and city")
		}
	default:
		return domain.NewValidationError("order type must be pickup or delivery")
	}
	if len(req.Items) == 0 {
		return domain.NewValidationError("an order needs at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return domain.NewValidationError("item quantity must be at least 1")
		}
	}
	switch req.PaymentMethod {
	case "", domain.PaymentCash, domain.PaymentCard, domain.PaymentWallet:
	default:
		return domain.NewValidationError("payment method must be card, cash or wallet")
	}
	return nil
}

// priceItems resolves every line against the catalog.
func (s *OrderService) priceItems(ctx context.Context, scope repository.ScopedRepository, lines []dto.OrderItemRequest) ([]domain.OrderItem, map[string]*domain.Product, error) {
	products := make(map[string]*domain.Product, len(lines))
	wanted := make(map[string]int, len(lines))
	items := make([]domain.OrderItem, 0, len(lines))

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			p, err := scope.Product().GetByID(ctx, line.ProductID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil, domain.NewValidationError("product " + line.ProductID + " does not exist")
			}
			if err != nil {
				return nil, nil, err
			}
			product = p
			products[line.ProductID] = p
		}
		wanted[line.ProductID] += line.Quantity

		if !product.IsActive || !product.Availability.IsAvailable {
			return nil, nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
		}
		if !product.CanOrder(wanted[line.ProductID]) {
			return nil, nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}

		unit := product.Price
		selected := make([]domain.SelectedOption, 0, len(line.Options))
		for _, opt := range line.Options {
			choice, ok := product.FindChoice(opt.OptionName, opt.ChoiceName)
			if !ok {
				return nil, nil, domain.NewValidationError(fmt.Sprintf("%s has no option %s / %s", product.Name, opt.OptionName, opt.ChoiceName))
			}
			unit += choice.Price
			selected = append(selected, domain.SelectedOption{OptionName: opt.OptionName, ChoiceName: choice.Name, Price: choice.Price})
		}
		for _, opt := range product.Options {
			if opt.Required && !hasOption(line.Options, opt.Name) {
				return nil, nil, domain.NewValidationError(fmt.Sprintf("%s requires a choice for %s", product.Name, opt.Name))
			}
		}

		items = append(items, domain.OrderItem{
			ProductID:       product.ID,
			ProductName:     product.Name,
			Quantity:        line.Quantity,
			UnitPrice:       roundMoney(unit),
			SelectedOptions: selected,
			Subtotal:        roundMoney(unit * float64(line.Quantity)),
		})
	}
	return items, products, nil
}

func hasOption(selected []dto.SelectedOptionRequest, name string) bool {
	for _, opt := range selected {
		if opt.OptionName == name {
			return true
		}
	}
	return false
}

func (s *OrderService) price(items []domain.OrderItem, delivery *domain.DeliveryInfo) domain.Pricing {
	var pricing domain.Pricing
	for _, item := range items {
		pricing.Subtotal += item.Subtotal
	}
	pricing.Subtotal = roundMoney(pricing.Subtotal)
	if delivery != nil {
		pricing.DeliveryFee = delivery.Fee
	}
	pricing.Tax = roundMoney(pricing.Subtotal * s.taxRate)
	pricing.Total = roundMoney(pricing.Subtotal + pricing.DeliveryFee + pricing.Tax - pricing.Discount)
	return pricing
}

func (s *OrderService) upsertCustomer(ctx context.Context, scope repository.ScopedRepository, req dto.CreateOrderRequest) (*domain.Customer, error) {
	phone := strings.TrimSpace(req.Customer.Phone)
	customer, err := scope.Customer().FindByPhone(ctx, phone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	customer = &domain.Customer{
		Name:        strings.TrimSpace(req.Customer.Name),
		Phone:       phone,
		Email:       strings.ToLower(strings.TrimSpace(req.Customer.Email)),
		Preferences: domain.DefaultPreferences(),
	}
	if req.Delivery != nil {
		customer.Addresses = []domain.CustomerAddress{{
			Street:       req.Delivery.Street,
			City:         req.Delivery.City,
			PostalCode:   req.Delivery.PostalCode,
			Coordinates:  req.Delivery.Coordinates,
			Instructions: req.Delivery.Instructions,
		}}
	}
	customer.ApplyDefaults()
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := scope.Customer().Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// decrementStock is best effort: the order already exists at this point.
func (s *OrderService) decrementStock(ctx context.Context, scope repository.ScopedRepository, products map[string]*domain.Product, lines []dto.OrderItemRequest) {
	sold := make(map[string]int, len(lines))
	for _, line := range lines {
		sold[line.ProductID] += line.Quantity
	}
	for id, qty := range sold {
		product := products[id]
		if !product.Inventory.TrackStock {
			continue
		}
		inventory := product.Inventory
		inventory.StockQuantity -= qty
		if inventory.StockQuantity < 0 {
			inventory.StockQuantity = 0
		}
		if err := scope.Product().UpdateInventory(ctx, id, inventory); err != nil {
			s.logger.Error("Failed to decrement stock", err, zap.String("product_id", id))
			continue
		}
		product.Inventory = inventory
		if product.LowStock() {
			s.logger.Warn("Product stock is low", zap.String("product_id", id), zap.Int("stock", inventory.StockQuantity))
		}
	}
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	order, err := scope.Order().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, query dto.ListOrdersQuery) ([]domain.Order, domain.Pagination, error) {
	if query.Status != "" && !domain.IsValidOrderStatus(query.Status) {
		return nil, domain.Pagination{}, domain.NewValidationError("invalid status filter")
	}
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	page := domain.NewPage(query.Page, query.Limit)

	orders, total, err := scope.Order().List(ctx, query.ToFilter(), page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return orders, domain.NewPagination(page, total), nil
}

// UpdateStatus moves an order one step along its lifecycle. The write only
// lands if nobody else moved the order since it was read.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req dto.UpdateOrderStatusRequest) (*domain.Order, error) {
	if !domain.IsValidOrderStatus(string(req.Status)) {
		return nil, domain.NewValidationError("invalid status")
	}
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	order, err := scope.Order().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	if !order.CanTransition(req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, req.Status)
	}

	from := order.Status
	order.AppendTimeline(req.Status, strings.TrimSpace(req.Note), s.now())
	updated, err := scope.Order().UpdateStatus(ctx, order, from)
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}

	s.notifyStatus(ctx, scope.TenantID(), updated)
	s.publish(ctx, updated)
	return updated, nil
}

func (s *OrderService) notifyStatus(ctx context.Context, tenantID string, order *domain.Order) {
	if !order.Status.Notifies() || order.Customer == nil {
		return
	}
	customer := order.Customer
	if customer.Phone == "" || !customer.Preferences.WhatsApp {
		return
	}
	tenant, err := s.repo.Tenant().GetByID(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to load tenant for status notification", err)
		return
	}
	notification := domain.NewOrderNotification(order, tenant)
	if err := s.queue.SendOrderStatusMessage(ctx, tenantID, notification, customer.Phone, order.Status); err != nil {
		s.logger.Error("Failed to enqueue status notification", err, zap.String("order", order.OrderNumber))
	}
}

func (s *OrderService) Stats(ctx context.Context, query dto.ListOrdersQuery) (*dto.OrderStatsResponse, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	stats, err := scope.Order().Stats(ctx, query.ToFilter())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	return dto.NewOrderStatsResponse(stats), nil
}

func (s *OrderService) publish(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, domain.NewOrderEvent(order)); err != nil {
		s.logger.Error("Failed to publish order event", err, zap.String("order", order.OrderNumber))
	}
}

// newOrderNumber yields ORD-YYYYMMDD-XXXXXX.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
