package dto

import (
	"time"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/pkg/utils"
)

type CreateTenantRequest struct {
	Name         string                     `json:"name" binding:"required" example:"Beirut Bites"`
	Subdomain    string                     `json:"subdomain" binding:"required" example:"beirut-bites"`
	Domain       *string                    `json:"domain,omitempty" example:"order.beirutbites.ae"`
	Settings     domain.TenantSettings      `json:"settings"`
	Subscription *domain.TenantSubscription `json:"subscription,omitempty"`
}

// UpdateTenantRequest only touches the fields that are present.
type UpdateTenantRequest struct {
	Name         *string                    `json:"name,omitempty"`
	Subdomain    *string                    `json:"subdomain,omitempty"`
	Domain       *string                    `json:"domain,omitempty"`
	Settings     *domain.TenantSettings     `json:"settings,omitempty"`
	Subscription *domain.TenantSubscription `json:"subscription,omitempty"`
}

type CreateUserRequest struct {
	Email       string             `json:"email" binding:"required" example:"chef@beirutbites.ae"`
	Name        string             `json:"name" example:"Rami"`
	Role        domain.Role        `json:"role" example:"STAFF"`
	TenantID    *string            `json:"tenant_id,omitempty"`
	Profile     domain.UserProfile `json:"profile"`
	Permissions []string           `json:"permissions"`
}

type ListUsersQuery struct {
	Role   string `form:"role"`
	Active *bool  `form:"active"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type CategoryRequest struct {
	Name        string `json:"name" example:"Mezze"`
	Description string `json:"description" example:"Cold and hot starters"`
	Image       string `json:"image"`
	SortOrder   *int   `json:"sort_order,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type ListCategoriesQuery struct {
	Active *bool `form:"active"`
}

type ProductRequest struct {
	Name         string                  `json:"name" example:"Chicken Shawarma"`
	Description  string                  `json:"description"`
	Price        *float64                `json:"price,omitempty" example:"18.5"`
	Images       []string                `json:"images,omitempty"`
	Category     string                  `json:"category" example:"550e8400-e29b-41d4-a716-446655440000"`
	Inventory    *domain.Inventory       `json:"inventory,omitempty"`
	Availability *domain.Availability    `json:"availability,omitempty"`
	Options      []domain.ProductOption  `json:"options,omitempty"`
	Nutritional  *domain.NutritionalInfo `json:"nutritional,omitempty"`
	SEO          *domain.SEO             `json:"seo,omitempty"`
	SortOrder    *int                    `json:"sort_order,omitempty"`
	IsActive     *bool                   `json:"is_active,omitempty"`
}

type ListProductsQuery struct {
	Category string `form:"category"`
	Active   *bool  `form:"active"`
	Q        string `form:"q"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type CustomerRequest struct {
	Name        string                      `json:"name" example:"Layla Haddad"`
	Email       string                      `json:"email" example:"layla@example.com"`
	Phone       string                      `json:"phone" example:"0501234567"`
	Addresses   []domain.CustomerAddress    `json:"addresses,omitempty"`
	Preferences *domain.CustomerPreferences `json:"preferences,omitempty"`
}

type ListCustomersQuery struct {
	Phone  string `form:"phone"`
	Email  string `form:"email"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type OrderCustomerRequest struct {
	Name  string `json:"name" binding:"required" example:"Layla Haddad"`
	Phone string `json:"phone" binding:"required" example:"0501234567"`
	Email string `json:"email,omitempty"`
}

type SelectedOptionRequest struct {
	OptionName string `json:"option_name" example:"Size"`
	ChoiceName string `json:"choice_name" example:"Large"`
}

type OrderItemRequest struct {
	ProductID string                  `json:"product_id" binding:"required"`
	Quantity  int                     `json:"quantity" binding:"required,min=1" example:"2"`
	Options   []SelectedOptionRequest `json:"options,omitempty"`
}

type CreateOrderRequest struct {
	Customer      OrderCustomerRequest    `json:"customer" binding:"required"`
	Items         []OrderItemRequest      `json:"items" binding:"required,min=1,dive"`
	Type          domain.OrderType        `json:"type" binding:"required" example:"delivery"`
	Delivery      *domain.DeliveryAddress `json:"delivery,omitempty"`
	Pickup        *domain.PickupInfo      `json:"pickup,omitempty"`
	PaymentMethod domain.PaymentMethod    `json:"payment_method" example:"cash"`
	Notes         string                  `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required" example:"confirmed"`
	Note   string             `json:"note,omitempty"`
}

type ListOrdersQuery struct {
	Status   string `form:"status"`
	Type     string `form:"type"`
	Customer string `form:"customer"`
	FromRaw  string `form:"from"`
	ToRaw    string `form:"to"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`

	// Filled by ParseDates.
	From time.Time `form:"-"`
	To   time.Time `form:"-"`
}

// ParseDates reads from and to as RFC3339 or YYYY-MM-DD. A bare to date
// covers the whole day.
func (q *ListOrdersQuery) ParseDates() error {
	var err error
	if q.FromRaw != "" {
		if q.From, err = utils.ParseDateBound(q.FromRaw, utils.RangeStart, time.UTC); err != nil {
			return err
		}
	}
	if q.ToRaw != "" {
		if q.To, err = utils.ParseDateBound(q.ToRaw, utils.RangeEnd, time.UTC); err != nil {
			return err
		}
	}
	return nil
}

type ExportOrdersRequest struct {
	Status domain.OrderStatus `json:"status,omitempty"`
	Type   domain.OrderType   `json:"type,omitempty"`
	From   time.Time          `json:"from,omitempty" example:"2025-07-01T00:00:00Z"`
	To     time.Time          `json:"to,omitempty" example:"2025-07-31T23:59:59Z"`
}
