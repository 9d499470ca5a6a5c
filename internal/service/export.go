package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/internal/utils"
)

// ExportService hands order reports to the export worker.
type ExportService struct {
	repo      repository.Repository
	queue     QueueService
	keyPrefix string
}

func NewExportService(repo repository.Repository, queue QueueService, keyPrefix string) *ExportService {
	return &ExportService{repo: repo, queue: queue, keyPrefix: keyPrefix}
}

func (s *ExportService) RequestOrderExport(ctx context.Context, req dto.ExportOrdersRequest) (*dto.ExportResponse, error) {
	if req.Status != "" && !domain.IsValidOrderStatus(string(req.Status)) {
		return nil, domain.NewValidationError("invalid status filter")
	}
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return nil, domain.NewValidationError("to must not be before from")
	}
	scope, err := scoped(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	export := &domain.ExportRequest{
		ID:          uuid.NewString(),
		TenantID:    scope.TenantID(),
		Status:      req.Status,
		Type:        req.Type,
		From:        req.From,
		To:          req.To,
		RequestedBy: utils.GetUserIDFromContext(ctx),
		RequestedAt: time.Now().UTC(),
	}
	if err := s.queue.SendExportMessage(ctx, export); err != nil {
		return nil, err
	}
	return &dto.ExportResponse{ID: export.ID, Key: export.ObjectKey(s.keyPrefix), Status: "queued"}, nil
}
