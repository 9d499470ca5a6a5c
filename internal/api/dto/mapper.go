package dto

import (
	"strings"

	"github.com/kingrain94/restaurant-saas/internal/domain"
)

func (r *CreateTenantRequest) ToTenant() *domain.Tenant {
	tenant := &domain.Tenant{
		Name:      strings.TrimSpace(r.Name),
		Subdomain: r.Subdomain,
		Settings:  r.Settings,
	}
	if r.Domain != nil && *r.Domain != "" {
		host := strings.ToLower(strings.TrimSpace(*r.Domain))
		tenant.Domain = &host
	}
	if r.Subscription != nil {
		tenant.Subscription = *r.Subscription
	}
	return tenant
}

// ApplyTo copies the present fields onto tenant. The subdomain is not one of them.
func (r *UpdateTenantRequest) ApplyTo(tenant *domain.Tenant) {
	if r.Name != nil {
		tenant.Name = strings.TrimSpace(*r.Name)
	}
	if r.Domain != nil {
		if *r.Domain == "" {
			tenant.Domain = nil
		} else {
			host := strings.ToLower(strings.TrimSpace(*r.Domain))
			tenant.Domain = &host
		}
	}
	if r.Settings != nil {
		tenant.Settings = *r.Settings
	}
	if r.Subscription != nil {
		tenant.Subscription = *r.Subscription
	}
}

func (r *CreateUserRequest) ToUser() *domain.User {
	return &domain.User{
		Email:       r.Email,
		Name:        r.Name,
		Role:        r.Role,
		TenantID:    r.TenantID,
		Profile:     r.Profile,
		Permissions: r.Permissions,
		IsActive:    true,
	}
}

// ToCategory builds a new category; it is active unless told otherwise.
func (r *CategoryRequest) ToCategory() *domain.Category {
	category := &domain.Category{IsActive: true}
	r.ApplyTo(category)
	return category
}

func (r *CategoryRequest) ApplyTo(category *domain.Category) {
	if r.Name != "" {
		category.Name = strings.TrimSpace(r.Name)
	}
	if r.Description != "" {
		category.Description = r.Description
	}
	if r.Image != "" {
		category.Image = r.Image
	}
	if r.SortOrder != nil {
		category.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		category.IsActive = *r.IsActive
	}
}

// ToProduct builds a new product, active and available by default.
func (r *ProductRequest) ToProduct() *domain.Product {
	product := &domain.Product{
		IsActive:     true,
		Availability: domain.Availability{IsAvailable: true},
	}
	r.ApplyTo(product)
	return product
}

func (r *ProductRequest) ApplyTo(product *domain.Product) {
	if r.Name != "" {
		product.Name = strings.TrimSpace(r.Name)
	}
	if r.Description != "" {
		product.Description = r.Description
	}
	if r.Price != nil {
		product.Price = *r.Price
	}
	if r.Images != nil {
		product.Images = r.Images
	}
	if r.Category != "" {
		product.CategoryID = r.Category
	}
	if r.Inventory != nil {
		product.Inventory = *r.Inventory
	}
	if r.Availability != nil {
		product.Availability = *r.Availability
	}
	if r.Options != nil {
		product.Options = r.Options
	}
	if r.Nutritional != nil {
		product.Nutritional = *r.Nutritional
	}
	if r.SEO != nil {
		product.SEO = *r.SEO
	}
	if r.SortOrder != nil {
		product.SortOrder = *r.SortOrder
	}
	if r.IsActive != nil {
		product.IsActive = *r.IsActive
	}
}

func (r *CustomerRequest) ToCustomer() *domain.Customer {
	customer := &domain.Customer{Preferences: domain.DefaultPreferences()}
	r.ApplyTo(customer)
	return customer
}

func (r *CustomerRequest) ApplyTo(customer *domain.Customer) {
	if r.Name != "" {
		customer.Name = strings.TrimSpace(r.Name)
	}
	if r.Email != "" {
		customer.Email = strings.ToLower(strings.TrimSpace(r.Email))
	}
	if r.Phone != "" {
		customer.Phone = strings.TrimSpace(r.Phone)
	}
	if r.Addresses != nil {
		customer.Addresses = r.Addresses
	}
	if r.Preferences != nil {
		customer.Preferences = *r.Preferences
	}
}

func (q *ListCategoriesQuery) ToFilter() domain.CategoryFilter {
	return domain.CategoryFilter{Active: q.Active}
}

func (q *ListOrdersQuery) ToFilter() domain.OrderFilter {
	return domain.OrderFilter{
		Status:     domain.OrderStatus(q.Status),
		Type:       domain.OrderType(q.Type),
		CustomerID: q.Customer,
		From:       q.From,
		To:         q.To,
	}
}

func NewOrderStatsResponse(stats []domain.OrderStats) *OrderStatsResponse {
	resp := &OrderStatsResponse{ByStatus: stats}
	for _, s := range stats {
		resp.TotalOrders += s.Count
		resp.TotalRevenue += s.Revenue
	}
	return resp
}
