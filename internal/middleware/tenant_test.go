package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/mocks"
	"github.com/kingrain94/restaurant-saas/internal/service"
	"github.com/kingrain94/restaurant-saas/internal/tenancy"
	"github.com/kingrain94/restaurant-saas/internal/utils"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type TenantMiddlewareTestSuite struct {
	suite.Suite
	lookup *mocks.TenantLookup
	auth   *AuthMiddleware
	router *gin.Engine
}

func (s *TenantMiddlewareTestSuite) SetupTest() {
	s.lookup = new(mocks.TenantLookup)
	s.auth = newAuth()
	s.router = s.newRouter(false)
}

func (s *TenantMiddlewareTestSuite) TearDownTest() {
	s.lookup.AssertExpectations(s.T())
}

func (s *TenantMiddlewareTestSuite) newRouter(trustEdge bool) *gin.Engine {
	tm := NewTenantMiddleware(tenancy.NewResolver(nil), s.lookup, trustEdge, logger.NewNopLogger())
	r := gin.New()
	r.GET("/menu", tm.Detect(), s.auth.OptionalJWTAuth(), tm.RequireTenant(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant": c.GetString(string(utils.TenantIDKey)),
			"plan":   c.GetString(string(utils.PlanKey)),
		})
	})
	return r
}

func (s *TenantMiddlewareTestSuite) get(r *gin.Engine, host string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.Host = host
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tenantFixture(id string, plan domain.SubscriptionPlan) *domain.Tenant {
	t := &domain.Tenant{Name: "Beirut Bites", Subdomain: "beirut-bites"}
	t.ID = id
	t.Subscription.Plan = plan
	return t
}

func (s *TenantMiddlewareTestSuite) TestSubdomainResolvesTenant() {
	s.lookup.On("GetBySubdomain", mock.Anything, "beirut-bites").
		Return(tenantFixture("tenant-1", domain.PlanPremium), nil)

	w := s.get(s.router, "beirut-bites.example.com", nil)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"tenant":"tenant-1","plan":"premium"}`, w.Body.String())
}

func (s *TenantMiddlewareTestSuite) TestForgedHeadersAreOverwritten() {
	s.lookup.On("GetBySubdomain", mock.Anything, "beirut-bites").
		Return(tenantFixture("tenant-1", domain.PlanBasic), nil)

	w := s.get(s.router, "beirut-bites.example.com", func(r *http.Request) {
		r.Header.Set(tenancy.HeaderTenantID, "victim")
		r.Header.Set(tenancy.HeaderSubdomain, "victim")
	})

	s.Equal(http.StatusOK, w.Code)
	s.lookup.AssertNotCalled(s.T(), "GetBySubdomain", mock.Anything, "victim")
}

func (s *TenantMiddlewareTestSuite) TestTrustedEdgeHeadersAreUsed() {
	router := s.newRouter(true)
	s.lookup.On("GetBySubdomain", mock.Anything, "shawarma-house").
		Return(tenantFixture("tenant-2", domain.PlanBasic), nil)

	w := s.get(router, "internal-lb:8080", func(r *http.Request) {
		r.Header.Set(tenancy.HeaderTenantID, "shawarma-house")
		r.Header.Set(tenancy.HeaderSubdomain, "shawarma-house")
		r.Header.Set(tenancy.HeaderIsMainDomain, "false")
	})

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "tenant-2")
}

func (s *TenantMiddlewareTestSuite) TestCustomDomainFallsBackToDomainLookup() {
	s.lookup.On("GetBySubdomain", mock.Anything, "order").Return(nil, service.ErrTenantNotFound)
	s.lookup.On("GetByDomain", mock.Anything, "order.beirutbites.ae").
		Return(tenantFixture("tenant-1", domain.PlanBasic), nil)

	w := s.get(s.router, "order.beirutbites.ae:443", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "tenant-1")
}

func (s *TenantMiddlewareTestSuite) TestUnknownSubdomainIsNotFound() {
	s.lookup.On("GetBySubdomain", mock.Anything, "ghost").Return(nil, service.ErrTenantNotFound)
	s.lookup.On("GetByDomain", mock.Anything, "ghost.example.com").Return(nil, service.ErrTenantNotFound)

	w := s.get(s.router, "ghost.example.com", nil)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *TenantMiddlewareTestSuite) TestLookupFailureIsUnavailable() {
	s.lookup.On("GetBySubdomain", mock.Anything, "beirut-bites").Return(nil, errors.New("connection refused"))

	w := s.get(s.router, "beirut-bites.example.com", nil)

	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *TenantMiddlewareTestSuite) TestMainDomainUsesTenantClaim() {
	s.lookup.On("GetByDomain", mock.Anything, "www.example.com").Return(nil, service.ErrTenantNotFound)
	token, err := s.auth.GenerateToken("user-1", "tenant-9", domain.RoleTenantAdmin)
	s.Require().NoError(err)

	w := s.get(s.router, "www.example.com", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "tenant-9")
}

func (s *TenantMiddlewareTestSuite) TestMainDomainWithoutClaimIsBadRequest() {
	s.lookup.On("GetByDomain", mock.Anything, "www.example.com").Return(nil, service.ErrTenantNotFound)

	w := s.get(s.router, "www.example.com", nil)

	s.Equal(http.StatusBadRequest, w.Code)
}

func TestTenantMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(TenantMiddlewareTestSuite))
}

func TestHostOnly(t *testing.T) {
	assert.Equal(t, "order.beirutbites.ae", hostOnly("Order.BeirutBites.ae:443"))
	assert.Equal(t, "localhost", hostOnly("localhost"))
}
