package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
)

//go:generate mockery --name OrderService --structname MockOrderService --output ../mocks
type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, query dto.ListOrdersQuery) ([]domain.Order, domain.Pagination, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateOrderStatusRequest) (*domain.Order, error)
	Stats(ctx context.Context, query dto.ListOrdersQuery) (*dto.OrderStatsResponse, error)
}

//go:generate mockery --name ExportService --structname MockExportService --output ../mocks
type ExportService interface {
	RequestOrderExport(ctx context.Context, req dto.ExportOrdersRequest) (*dto.ExportResponse, error)
}

type OrderHandler struct {
	*BaseHandler
	service OrderService
	exports ExportService
}

func NewOrderHandler(service OrderService, exports ExportService, base *BaseHandler) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service, exports: exports}
}

// CreateOrder godoc
// @Summary Place an order
// @Description Storefront checkout. Prices come from the catalog; the customer is matched by phone.
// @Tags orders
// @Accept json
// @Produce json
// @Param body body dto.CreateOrderRequest true "Order"
// @Success 201 {object} dto.Response{data=domain.Order}
// @Failure 400 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	order, err := h.service.Create(h.RequestCtx(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(order))
}

// ListOrders godoc
// @Summary List orders
// @Tags orders
// @Produce json
// @Param status query string false "Order status"
// @Param type query string false "pickup or delivery"
// @Param customer query string false "Customer ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.ListResponse{data=[]domain.Order}
// @Failure 400 {object} dto.Error
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var query dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := query.ParseDates(); err != nil {
		h.badRequest(c, err)
		return
	}

	orders, pagination, err := h.service.List(h.RequestCtx(c), query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.List(orders, pagination))
}

// GetOrder godoc
// @Summary Get an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.Response{data=domain.Order}
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetByID(h.RequestCtx(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(order))
}

// UpdateOrderStatus godoc
// @Summary Move an order along its lifecycle
// @Description Disallowed transitions and concurrent changes return 409
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body dto.UpdateOrderStatusRequest true "New status"
// @Success 200 {object} dto.Response{data=domain.Order}
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Security BearerAuth
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	order, err := h.service.UpdateStatus(h.RequestCtx(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(order))
}

// GetOrderStats godoc
// @Summary Order counts and revenue by status
// @Tags orders
// @Produce json
// @Param type query string false "pickup or delivery"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.Response{data=dto.OrderStatsResponse}
// @Security BearerAuth
// @Router /orders/stats [get]
func (h *OrderHandler) GetOrderStats(c *gin.Context) {
	var query dto.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := query.ParseDates(); err != nil {
		h.badRequest(c, err)
		return
	}

	stats, err := h.service.Stats(h.RequestCtx(c), query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(stats))
}

// ExportOrders godoc
// @Summary Export orders to XLSX
// @Description The report is built asynchronously and stored under the returned key
// @Tags orders
// @Accept json
// @Produce json
// @Param body body dto.ExportOrdersRequest false "Export filter"
// @Success 202 {object} dto.Response{data=dto.ExportResponse}
// @Failure 400 {object} dto.Error
// @Security BearerAuth
// @Router /orders/export [post]
func (h *OrderHandler) ExportOrders(c *gin.Context) {
	var req dto.ExportOrdersRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, err)
			return
		}
	}

	resp, err := h.exports.RequestOrderExport(h.RequestCtx(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.OK(resp))
}
