package service

import (
	"context"

	"github.com/kingrain94/restaurant-saas/internal/mocks"
	"github.com/kingrain94/restaurant-saas/internal/utils"
)

const testTenantID = "6f1c1d2e-8f57-4a3b-9a4e-3c2b1a0f9e8d"

// scopeMocks wires a Repository mock whose Scoped call hands out per-collection mocks.
type scopeMocks struct {
	repo     *mocks.Repository
	tenant   *mocks.TenantRepository
	search   *mocks.SearchRepository
	scope    *mocks.ScopedRepository
	category *mocks.CategoryRepository
	product  *mocks.ProductRepository
	customer *mocks.CustomerRepository
	order    *mocks.OrderRepository
}

func newScopeMocks() *scopeMocks {
	m := &scopeMocks{
		repo:     new(mocks.Repository),
		tenant:   new(mocks.TenantRepository),
		search:   new(mocks.SearchRepository),
		scope:    new(mocks.ScopedRepository),
		category: new(mocks.CategoryRepository),
		product:  new(mocks.ProductRepository),
		customer: new(mocks.CustomerRepository),
		order:    new(mocks.OrderRepository),
	}
	m.repo.On("Tenant").Return(m.tenant).Maybe()
	m.repo.On("Search").Return(m.search).Maybe()
	m.repo.On("Scoped", testTenantID).Return(m.scope, nil).Maybe()
	m.scope.On("TenantID").Return(testTenantID).Maybe()
	m.scope.On("Category").Return(m.category).Maybe()
	m.scope.On("Product").Return(m.product).Maybe()
	m.scope.On("Customer").Return(m.customer).Maybe()
	m.scope.On("Order").Return(m.order).Maybe()
	return m
}

func tenantContext() context.Context {
	return context.WithValue(context.Background(), utils.TenantIDKey, testTenantID)
}
