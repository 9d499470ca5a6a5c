package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/mocks"
	"github.com/kingrain94/restaurant-saas/internal/service"
	"github.com/kingrain94/restaurant-saas/internal/utils"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

const handlerTenantID = "6f1c1d2e-8b7a-4c1e-9a55-3d2f4e6a7b80"

type OrderHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	orders  *mocks.MockOrderService
	exports *mocks.MockExportService
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.orders = new(mocks.MockOrderService)
	s.exports = new(mocks.MockExportService)
	handler := NewOrderHandler(s.orders, s.exports, NewBaseHandler(logger.NewNopLogger(), false))

	s.router = gin.New()
	// Stands in for the tenant middleware.
	s.router.Use(func(c *gin.Context) {
		c.Set(string(utils.TenantIDKey), handlerTenantID)
		c.Next()
	})
	s.router.POST("/orders", handler.CreateOrder)
	s.router.GET("/orders", handler.ListOrders)
	s.router.GET("/orders/stats", handler.GetOrderStats)
	s.router.POST("/orders/export", handler.ExportOrders)
	s.router.GET("/orders/:id", handler.GetOrder)
	s.router.PATCH("/orders/:id/status", handler.UpdateOrderStatus)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.orders.AssertExpectations(s.T())
	s.exports.AssertExpectations(s.T())
}

func TestOrderHandler(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		req = httptest.NewRequest(method, target, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sampleOrder(status domain.OrderStatus) *domain.Order {
	o := &domain.Order{OrderNumber: "ORD-20250714-4821", Status: status}
	o.ID = "order-1"
	o.TenantID = handlerTenantID
	o.Pricing.Total = 62.5
	return o
}

func (s *OrderHandlerTestSuite) checkoutRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Customer: dto.OrderCustomerRequest{Name: "Layla Haddad", Phone: "0501234567"},
		Items: []dto.OrderItemRequest{{
			ProductID: "product-1",
			Quantity:  2,
			Options:   []dto.SelectedOptionRequest{{OptionName: "Size", ChoiceName: "Large"}},
		}},
		Type:          domain.OrderTypePickup,
		PaymentMethod: domain.PaymentCash,
	}
}

func (s *OrderHandlerTestSuite) TestCreateOrder_Success() {
	req := s.checkoutRequest()
	s.orders.On("Create", mock.Anything, req).Return(sampleOrder(domain.OrderPending), nil)

	w := s.do(http.MethodPost, "/orders", req)

	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), `"order_number":"ORD-20250714-4821"`)
}

func (s *OrderHandlerTestSuite) TestCreateOrder_NoItems() {
	req := s.checkoutRequest()
	req.Items = nil

	w := s.do(http.MethodPost, "/orders", req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *OrderHandlerTestSuite) TestCreateOrder_ZeroQuantity() {
	req := s.checkoutRequest()
	req.Items[0].Quantity = 0

	w := s.do(http.MethodPost, "/orders", req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *OrderHandlerTestSuite) TestCreateOrder_InsufficientStock() {
	req := s.checkoutRequest()
	s.orders.On("Create", mock.Anything, req).Return(nil, service.ErrInsufficientStock)

	w := s.do(http.MethodPost, "/orders", req)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *OrderHandlerTestSuite) TestListOrders_PassesFilters() {
	s.orders.On("List", mock.Anything, mock.MatchedBy(func(q dto.ListOrdersQuery) bool {
		return q.Status == "pending" && q.Page == 2 && q.From.Format("2006-01-02") == "2025-07-01"
	})).Return([]domain.Order{*sampleOrder(domain.OrderPending)}, domain.Pagination{Current: 2, Pages: 2, Total: 21}, nil)

	w := s.do(http.MethodGet, "/orders?status=pending&page=2&from=2025-07-01", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"pagination":{"current":2,"pages":2,"total":21}`)
}

func (s *OrderHandlerTestSuite) TestListOrders_ToDateCoversWholeDay() {
	s.orders.On("List", mock.Anything, mock.MatchedBy(func(q dto.ListOrdersQuery) bool {
		return q.To.Format("2006-01-02 15:04:05") == "2025-07-31 23:59:59"
	})).Return([]domain.Order{}, domain.Pagination{Current: 1}, nil)

	w := s.do(http.MethodGet, "/orders?to=2025-07-31", nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *OrderHandlerTestSuite) TestListOrders_InvalidDate() {
	w := s.do(http.MethodGet, "/orders?from=yesterday", nil)

	s.Equal(http.StatusBadRequest, w.Code)
	s.orders.AssertNotCalled(s.T(), "List", mock.Anything, mock.Anything)
}

func (s *OrderHandlerTestSuite) TestGetOrder_ForwardsTenant() {
	s.orders.On("GetByID", mock.MatchedBy(func(ctx context.Context) bool {
		tenantID, err := utils.GetTenantIDFromContext(ctx)
		return err == nil && tenantID == handlerTenantID
	}), "order-1").Return(sampleOrder(domain.OrderPending), nil)

	w := s.do(http.MethodGet, "/orders/order-1", nil)

	s.Equal(http.StatusOK, w.Code)
}

func (s *OrderHandlerTestSuite) TestUpdateOrderStatus_InvalidTransition() {
	req := dto.UpdateOrderStatusRequest{Status: domain.OrderDelivered}
	s.orders.On("UpdateStatus", mock.Anything, "order-1", req).Return(nil, service.ErrInvalidTransition)

	w := s.do(http.MethodPatch, "/orders/order-1/status", req)

	s.Equal(http.StatusConflict, w.Code)
}

func (s *OrderHandlerTestSuite) TestUpdateOrderStatus_Success() {
	req := dto.UpdateOrderStatusRequest{Status: domain.OrderConfirmed, Note: "kitchen notified"}
	s.orders.On("UpdateStatus", mock.Anything, "order-1", req).Return(sampleOrder(domain.OrderConfirmed), nil)

	w := s.do(http.MethodPatch, "/orders/order-1/status", req)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"status":"confirmed"`)
}

func (s *OrderHandlerTestSuite) TestGetOrderStats() {
	stats := dto.NewOrderStatsResponse([]domain.OrderStats{
		{Status: domain.OrderDelivered, Count: 3, Revenue: 150},
		{Status: domain.OrderPending, Count: 1, Revenue: 20},
	})
	s.orders.On("Stats", mock.Anything, mock.Anything).Return(stats, nil)

	w := s.do(http.MethodGet, "/orders/stats", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"total_orders":4`)
}

func (s *OrderHandlerTestSuite) TestExportOrders_EmptyBody() {
	s.exports.On("RequestOrderExport", mock.Anything, dto.ExportOrdersRequest{}).
		Return(&dto.ExportResponse{ID: "export-1", Key: "exports/t/orders_export-1.xlsx", Status: "queued"}, nil)

	w := s.do(http.MethodPost, "/orders/export", nil)

	s.Equal(http.StatusAccepted, w.Code)
	s.Contains(w.Body.String(), `"status":"queued"`)
}
