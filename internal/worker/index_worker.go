package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/internal/service/queue"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

// products written to the search index per bulk request during a reindex
const reindexBatchSize = domain.MaxLimit

// IndexWorker keeps the per-tenant product search index in step with the
// database. Index messages carry ids only, so the worker always indexes the
// current row.
type IndexWorker struct {
	*consumer
	repository repository.Repository
	logger     *logger.Logger
}

func NewIndexWorker(
	receiver Receiver,
	queueURL string,
	repository repository.Repository,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *IndexWorker {
	w := &IndexWorker{
		repository: repository,
		logger:     logger.Named("index"),
	}
	w.consumer = newConsumer("index", receiver, queueURL, w.handleMessage, logger, workerCount, pollInterval)
	return w
}

func (w *IndexWorker) handleMessage(ctx context.Context, msg queue.Message) error {
	switch msg.Type {
	case queue.MessageTypeIndexProduct:
		return w.indexProduct(ctx, msg.TenantID, msg.ProductID)
	case queue.MessageTypeDeleteProduct:
		return w.deleteProduct(ctx, msg.TenantID, msg.ProductID)
	case queue.MessageTypeReindex:
		return w.reindexTenant(ctx, msg.TenantID)
	default:
		w.logger.Warn("Ignoring unexpected message on the index queue", zap.String("type", string(msg.Type)))
		return nil
	}
}

func (w *IndexWorker) indexProduct(ctx context.Context, tenantID, productID string) error {
	scope, err := w.repository.Scoped(tenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant %q: %w", tenantID, err)
	}

	product, err := scope.Product().GetByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		// Deleted before the message was handled.
		return w.deleteProduct(ctx, tenantID, productID)
	}
	if err != nil {
		return fmt.Errorf("failed to load product %s: %w", productID, err)
	}

	if err := w.repository.Search().IndexProduct(ctx, product); err != nil {
		return fmt.Errorf("failed to index product %s: %w", productID, err)
	}
	w.logger.Info("Product indexed", zap.String("tenant_id", tenantID), zap.String("product_id", productID))
	return nil
}

func (w *IndexWorker) deleteProduct(ctx context.Context, tenantID, productID string) error {
	if err := w.repository.Search().DeleteProduct(ctx, tenantID, productID); err != nil {
		return fmt.Errorf("failed to remove product %s from index: %w", productID, err)
	}
	w.logger.Info("Product removed from index", zap.String("tenant_id", tenantID), zap.String("product_id", productID))
	return nil
}

// reindexTenant rebuilds a tenant's index from scratch in batches.
func (w *IndexWorker) reindexTenant(ctx context.Context, tenantID string) error {
	scope, err := w.repository.Scoped(tenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant %q: %w", tenantID, err)
	}

	search := w.repository.Search()
	if err := search.DeleteIndex(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to drop index for tenant %s: %w", tenantID, err)
	}
	if err := search.CreateIndex(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to create index for tenant %s: %w", tenantID, err)
	}

	indexed := 0
	for page := domain.NewPage(1, reindexBatchSize); ; page.Page++ {
		products, total, err := scope.Product().List(ctx, domain.ProductFilter{}, page)
		if err != nil {
			return fmt.Errorf("failed to list products for tenant %s: %w", tenantID, err)
		}
		if len(products) > 0 {
			if err := search.BulkIndexProducts(ctx, tenantID, products); err != nil {
				return fmt.Errorf("failed to bulk index tenant %s: %w", tenantID, err)
			}
			indexed += len(products)
		}
		if len(products) < page.Limit || int64(page.Page*page.Limit) >= total {
			break
		}
	}

	w.logger.Info("Tenant reindexed", zap.String("tenant_id", tenantID), zap.Int("products", indexed))
	return nil
}
