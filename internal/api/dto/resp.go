package dto

import (
	"github.com/kingrain94/restaurant-saas/internal/domain"
)

// Response wraps every successful single-object reply.
type Response struct {
	Success bool `json:"success" example:"true"`
	Data    any  `json:"data"`
}

// ListResponse wraps paginated lists.
type ListResponse struct {
	Success    bool              `json:"success" example:"true"`
	Data       any               `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

func OK(data any) Response {
	return Response{Success: true, Data: data}
}

func List(data any, pagination domain.Pagination) ListResponse {
	return ListResponse{Success: true, Data: data, Pagination: pagination}
}

type OrderStatsResponse struct {
	ByStatus     []domain.OrderStats `json:"by_status"`
	TotalOrders  int64               `json:"total_orders" example:"42"`
	TotalRevenue float64             `json:"total_revenue" example:"1830.5"`
}

type ExportResponse struct {
	ID     string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Key    string `json:"key" example:"exports/<tenant>/2025/07/17/orders_<id>.xlsx"`
	Status string `json:"status" example:"queued"`
}
