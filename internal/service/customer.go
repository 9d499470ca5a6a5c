package service

import (
	"context"
	"errors"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
)

// CustomerService never deletes: customers are referenced by orders.
type CustomerService struct {
	repo repository.Repository
}

func NewCustomerService(repo repository.Repository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) List(ctx context.Context, query dto.ListCustomersQuery) ([]domain.Customer, domain.Pagination, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	page := domain.NewPage(query.Page, query.Limit)
	filter := domain.CustomerFilter{Phone: query.Phone, Email: query.Email, Search: query.Search}

	customers, total, err := scope.Customer().List(ctx, filter, page)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return customers, domain.NewPagination(page, total), nil
}

func (s *CustomerService) Create(ctx context.Context, req dto.CustomerRequest) (*domain.Customer, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	customer := req.ToCustomer()
	customer.ApplyDefaults()
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if customer.Phone != "" {
		_, err := scope.Customer().FindByPhone(ctx, customer.Phone)
		if err == nil {
			return nil, domain.NewValidationError("a customer with this phone already exists")
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	if err := scope.Customer().Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	customer, err := scope.Customer().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCustomerNotFound)
	}
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, req dto.CustomerRequest) (*domain.Customer, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	customer, err := scope.Customer().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCustomerNotFound)
	}
	req.ApplyTo(customer)
	customer.ApplyDefaults()
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	updated, err := scope.Customer().Update(ctx, id, customer)
	if err != nil {
		return nil, notFound(err, ErrCustomerNotFound)
	}
	return updated, nil
}
