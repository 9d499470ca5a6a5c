package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
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

type CustomerHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *mocks.MockCustomerService
}

func (s *CustomerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockService = new(mocks.MockCustomerService)
	handler := NewCustomerHandler(s.mockService, NewBaseHandler(logger.NewNopLogger(), true))

	s.router = gin.New()
	s.router.Use(func(c *gin.Context) {
		c.Set(string(utils.TenantIDKey), handlerTenantID)
		c.Next()
	})
	s.router.GET("/customers", handler.ListCustomers)
	s.router.POST("/customers", handler.CreateCustomer)
	s.router.GET("/customers/:id", handler.GetCustomer)
	s.router.PUT("/customers/:id", handler.UpdateCustomer)
}

func (s *CustomerHandlerTestSuite) TearDownTest() {
	s.mockService.AssertExpectations(s.T())
}

func TestCustomerHandler(t *testing.T) {
	suite.Run(t, new(CustomerHandlerTestSuite))
}

func (s *CustomerHandlerTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *CustomerHandlerTestSuite) TestCreateCustomer_Success() {
	customer := &domain.Customer{Name: "Layla Haddad", Phone: "0501234567"}
	s.mockService.On("Create", mock.Anything, dto.CustomerRequest{Name: "Layla Haddad", Phone: "0501234567"}).
		Return(customer, nil)

	w := s.do(http.MethodPost, "/customers", `{"name":"Layla Haddad","phone":"0501234567"}`)

	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), "Layla Haddad")
}

func (s *CustomerHandlerTestSuite) TestCreateCustomer_MissingPhone() {
	s.mockService.On("Create", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("phone is required"))

	w := s.do(http.MethodPost, "/customers", `{"name":"Layla Haddad"}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"success":false,"error":"phone is required"}`, w.Body.String())
}

func (s *CustomerHandlerTestSuite) TestListCustomers_PassesSearch() {
	s.mockService.On("List", mock.Anything, dto.ListCustomersQuery{Search: "layla", Page: 1, Limit: 20}).
		Return([]domain.Customer{}, domain.Pagination{Current: 1}, nil)

	w := s.do(http.MethodGet, "/customers?search=layla&page=1&limit=20", "")

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"pagination"`)
}

func (s *CustomerHandlerTestSuite) TestGetCustomer_NotFound() {
	s.mockService.On("GetByID", mock.Anything, "missing").Return(nil, service.ErrCustomerNotFound)

	w := s.do(http.MethodGet, "/customers/missing", "")

	s.Equal(http.StatusNotFound, w.Code)
	s.JSONEq(`{"success":false,"error":"Customer not found"}`, w.Body.String())
}

func (s *CustomerHandlerTestSuite) TestUpdateCustomer_MalformedBody() {
	w := s.do(http.MethodPut, "/customers/customer-1", `[`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.mockService.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}
