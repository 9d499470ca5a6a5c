package service

import (
	"context"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
)

type CategoryService struct {
	repo repository.Repository
}

func NewCategoryService(repo repository.Repository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	return scope.Category().List(ctx, filter)
}

func (s *CategoryService) Create(ctx context.Context, req dto.CategoryRequest) (*domain.Category, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	category := req.ToCategory()
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := scope.Category().Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	category, err := scope.Category().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req dto.CategoryRequest) (*domain.Category, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	category, err := scope.Category().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	req.ApplyTo(category)
	if err := category.Validate(); err != nil {
		return nil, err
	}

	updated, err := scope.Category().Update(ctx, id, category)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return updated, nil
}

// Delete refuses while products still reference the category.
func (s *CategoryService) Delete(ctx context.Context, id string) (*domain.Category, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	inUse, err := scope.Product().Count(ctx, domain.ProductFilter{CategoryID: id})
	if err != nil {
		return nil, err
	}
	if inUse > 0 {
		return nil, ErrCategoryInUse
	}

	deleted, err := scope.Category().Delete(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return deleted, nil
}
