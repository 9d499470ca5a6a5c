package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type ProductService struct {
	repo   repository.Repository
	queue  QueueService
	logger *logger.Logger
}

func NewProductService(repo repository.Repository, queue QueueService, logger *logger.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		queue:  queue,
		logger: logger,
	}
}

// List pages the catalog. A non-empty q goes through the search index; the
// hits are then re-read from the database so only this tenant's rows return.
func (s *ProductService) List(ctx context.Context, query dto.ListProductsQuery) ([]domain.Product, domain.Pagination, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	page := domain.NewPage(query.Page, query.Limit)
	filter := domain.ProductFilter{CategoryID: query.Category, Active: query.Active}

	if query.Q == "" {
		products, total, err := scope.Product().List(ctx, filter, page)
		if err != nil {
			return nil, domain.Pagination{}, err
		}
		return products, domain.NewPagination(page, total), nil
	}

	ids, total, err := s.repo.Search().SearchProducts(ctx, scope.TenantID(), domain.ProductSearch{
		Query:      query.Q,
		CategoryID: query.Category,
		Active:     query.Active,
		Page:       page,
	})
	if err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("product search failed: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Product{}, domain.NewPagination(page, total), nil
	}

	filter.IDs = ids
	products, _, err := scope.Product().List(ctx, filter, domain.NewPage(1, len(ids)))
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return orderByIDs(products, ids), domain.NewPagination(page, total), nil
}

func orderByIDs(products []domain.Product, ids []string) []domain.Product {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]domain.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *ProductService) Create(ctx context.Context, req dto.ProductRequest) (*domain.Product, error) {
	if req.Name == "" || req.Price == nil || req.Category == "" {
		return nil, domain.NewValidationError("Name, price and category are required")
	}
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	product := req.ToProduct()
	product.ApplyDefaults()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	category, err := s.categoryOf(ctx, scope, product.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := scope.Product().Create(ctx, product); err != nil {
		return nil, err
	}
	product.Category = category

	s.enqueueIndex(ctx, scope.TenantID(), product.ID)
	return product, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	product, err := scope.Product().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req dto.ProductRequest) (*domain.Product, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	product, err := scope.Product().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	previousCategory := product.CategoryID
	req.ApplyTo(product)
	product.ApplyDefaults()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if product.CategoryID != previousCategory {
		if _, err := s.categoryOf(ctx, scope, product.CategoryID); err != nil {
			return nil, err
		}
	}

	updated, err := scope.Product().Update(ctx, id, product)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	s.enqueueIndex(ctx, scope.TenantID(), id)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	deleted, err := scope.Product().Delete(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	if err := s.queue.SendProductDeleteMessage(ctx, scope.TenantID(), id); err != nil {
		s.logger.Error("Failed to enqueue product removal", err, zap.String("product_id", id))
	}
	return deleted, nil
}

// Reindex asks the index worker to rebuild the tenant's search documents.
func (s *ProductService) Reindex(ctx context.Context) error {
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return err
	}
	return s.queue.SendReindexMessage(ctx, scope.TenantID())
}

// categoryOf resolves a category reference inside the tenant. A miss is a
// client error on the product, hence a validation error.
func (s *ProductService) categoryOf(ctx context.Context, scope repository.ScopedRepository, categoryID string) (*domain.Category, error) {
	category, err := scope.Category().GetByID(ctx, categoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnknownCategory
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *ProductService) enqueueIndex(ctx context.Context, tenantID, productID string) {
	if err := s.queue.SendProductIndexMessage(ctx, tenantID, productID); err != nil {
		s.logger.Error("Failed to enqueue product indexing", err, zap.String("product_id", productID))
	}
}
