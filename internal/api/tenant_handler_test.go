package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/mocks"
	"github.com/kingrain94/restaurant-saas/internal/service"
	"github.com/kingrain94/restaurant-saas/internal/utils"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type TenantHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *mocks.MockTenantService
	handler     *TenantHandler
}

func (s *TenantHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.mockService = new(mocks.MockTenantService)
	s.handler = NewTenantHandler(s.mockService, NewBaseHandler(logger.NewNopLogger(), true))

	s.router.POST("/tenants", s.handler.CreateTenant)
	s.router.GET("/tenants", s.handler.ListTenants)
	s.router.GET("/tenants/:id", s.handler.GetTenant)
	s.router.PUT("/tenants/:id", s.handler.UpdateTenant)
	s.router.DELETE("/tenants/:id", s.handler.DeleteTenant)
}

func (s *TenantHandlerTestSuite) TearDownTest() {
	s.mockService.AssertExpectations(s.T())
}

func TestTenantHandler(t *testing.T) {
	suite.Run(t, new(TenantHandlerTestSuite))
}

func (s *TenantHandlerTestSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func sampleTenant() *domain.Tenant {
	t := &domain.Tenant{Name: "Beirut Bites", Subdomain: "beirut-bites"}
	t.ID = "tenant1"
	t.Settings.Business.Cuisine = "Lebanese"
	return t
}

func (s *TenantHandlerTestSuite) TestCreateTenant_Success() {
	req := dto.CreateTenantRequest{Name: "Beirut Bites", Subdomain: "beirut-bites"}
	req.Settings.Business.Cuisine = "Lebanese"

	s.mockService.On("Create", mock.Anything, req).Return(sampleTenant(), nil)

	w := s.do(http.MethodPost, "/tenants", req)

	s.Equal(http.StatusCreated, w.Code)
	var response struct {
		Success bool          `json:"success"`
		Data    domain.Tenant `json:"data"`
	}
	s.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	s.True(response.Success)
	s.Equal("tenant1", response.Data.ID)
	s.Equal("beirut-bites", response.Data.Subdomain)
}

func (s *TenantHandlerTestSuite) TestCreateTenant_MissingSubdomain() {
	w := s.do(http.MethodPost, "/tenants", map[string]string{"name": "Beirut Bites"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.mockService.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *TenantHandlerTestSuite) TestCreateTenant_SubdomainTaken() {
	req := dto.CreateTenantRequest{Name: "Beirut Bites", Subdomain: "beirut-bites"}
	s.mockService.On("Create", mock.Anything, req).Return(nil, service.ErrSubdomainTaken)

	w := s.do(http.MethodPost, "/tenants", req)

	s.Equal(http.StatusConflict, w.Code)
	s.Contains(w.Body.String(), service.ErrSubdomainTaken.Error())
}

func (s *TenantHandlerTestSuite) TestCreateTenant_ValidationError() {
	req := dto.CreateTenantRequest{Name: "Beirut Bites", Subdomain: "beirut-bites"}
	s.mockService.On("Create", mock.Anything, req).Return(nil, domain.NewValidationError("cuisine is required"))

	w := s.do(http.MethodPost, "/tenants", req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "cuisine is required")
}

func (s *TenantHandlerTestSuite) TestListTenants_Success() {
	tenants := []domain.Tenant{*sampleTenant()}
	s.mockService.On("List", mock.Anything).Return(tenants, nil)

	w := s.do(http.MethodGet, "/tenants", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"subdomain":"beirut-bites"`)
}

func (s *TenantHandlerTestSuite) TestGetTenant_NotFound() {
	s.mockService.On("GetByID", mock.Anything, "missing").Return(nil, service.ErrTenantNotFound)

	w := s.do(http.MethodGet, "/tenants/missing", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.JSONEq(`{"success":false,"error":"Tenant not found"}`, w.Body.String())
}

func (s *TenantHandlerTestSuite) TestUpdateTenant_Success() {
	name := "Beirut Bites Marina"
	req := dto.UpdateTenantRequest{Name: &name}
	updated := sampleTenant()
	updated.Name = name
	s.mockService.On("Update", mock.Anything, "tenant1", req).Return(updated, nil)

	w := s.do(http.MethodPut, "/tenants/tenant1", req)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), name)
}

func (s *TenantHandlerTestSuite) TestDeleteTenant_Success() {
	s.mockService.On("Delete", mock.Anything, "tenant1").Return(nil)

	w := s.do(http.MethodDelete, "/tenants/tenant1", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"id":"tenant1"`)
}

func (s *TenantHandlerTestSuite) TestInternalErrorIsHidden() {
	s.mockService.On("List", mock.Anything).Return(nil, errors.New("pq: connection reset"))

	w := s.do(http.MethodGet, "/tenants", nil)

	s.Equal(http.StatusInternalServerError, w.Code)
	s.NotContains(w.Body.String(), "pq:")
}

func TestUpdateTenant_TenantAdminCannotChangeSubscription(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(mocks.Repository)
	tenants := new(mocks.TenantRepository)
	repo.On("Tenant").Return(tenants).Maybe()

	handler := NewTenantHandler(service.NewTenantService(repo, nil, logger.NewNopLogger()),
		NewBaseHandler(logger.NewNopLogger(), true))
	router := gin.New()
	router.PUT("/tenants/:id", func(c *gin.Context) {
		c.Set(string(utils.RoleKey), string(domain.RoleTenantAdmin))
		c.Next()
	}, handler.UpdateTenant)

	body := `{"subscription":{"status":"active","plan":"premium"}}`
	req := httptest.NewRequest(http.MethodPut, "/tenants/tenant1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	tenants.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
