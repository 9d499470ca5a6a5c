package service

import (
	"context"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/mocks"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo   *mocks.Repository
	mockTenant *mocks.TenantRepository
	mockUser   *mocks.UserRepository
	service    *UserService
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockRepo = new(mocks.Repository)
	s.mockTenant = new(mocks.TenantRepository)
	s.mockUser = new(mocks.UserRepository)

	s.mockRepo.On("Tenant").Return(s.mockTenant)
	s.mockRepo.On("User").Return(s.mockUser)

	s.service = NewUserService(s.mockRepo)
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func actorContext(role domain.Role, tenantID string) context.Context {
	ctx := context.WithValue(context.Background(), utils.RoleKey, string(role))
	claims := jwt.MapClaims{"role": string(role)}
	if tenantID != "" {
		claims["tenant_id"] = tenantID
	}
	return context.WithValue(ctx, utils.ClaimsKey, claims)
}

func (s *UserServiceTestSuite) TestCreate_TenantAdminPinsOwnTenant() {
	// Arrange
	ctx := actorContext(domain.RoleTenantAdmin, testTenantID)
	foreign := "9a0b7c55-1f2e-4d3c-8b7a-6e5d4c3b2a10"
	req := dto.CreateUserRequest{Email: "chef@beirutbites.ae", Role: domain.RoleStaff, TenantID: &foreign}

	s.mockTenant.On("GetByID", ctx, testTenantID).Return(sampleTenant(), nil)
	s.mockUser.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.TenantID != nil && *u.TenantID == testTenantID
	})).Return(nil)

	// Act
	user, err := s.service.Create(ctx, req)

	// Assert
	s.NoError(err)
	s.Equal(testTenantID, *user.TenantID)
	s.mockUser.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestCreate_TenantAdminCannotCreateOperator() {
	ctx := actorContext(domain.RoleTenantAdmin, testTenantID)

	_, err := s.service.Create(ctx, dto.CreateUserRequest{Email: "root@example.com", Role: domain.RoleSuperAdmin})

	s.ErrorIs(err, ErrTenantForbidden)
}

func (s *UserServiceTestSuite) TestCreate_DuplicateEmail() {
	ctx := actorContext(domain.RoleSuperAdmin, "")
	s.mockUser.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicate)

	_, err := s.service.Create(ctx, dto.CreateUserRequest{Email: "root@example.com", Role: domain.RoleSuperAdmin})

	s.ErrorIs(err, ErrEmailAlreadyExists)
}

func (s *UserServiceTestSuite) TestCreate_UnknownTenant() {
	ctx := actorContext(domain.RoleSuperAdmin, "")
	tenantID := "9a0b7c55-1f2e-4d3c-8b7a-6e5d4c3b2a10"
	s.mockTenant.On("GetByID", ctx, tenantID).Return(nil, repository.ErrNotFound)

	_, err := s.service.Create(ctx, dto.CreateUserRequest{Email: "a@b.ae", Role: domain.RoleStaff, TenantID: &tenantID})

	var validation *domain.ValidationError
	s.ErrorAs(err, &validation)
	s.True(strings.Contains(err.Error(), "tenant"))
}

func (s *UserServiceTestSuite) TestGetByID_HidesOtherTenants() {
	ctx := actorContext(domain.RoleTenantAdmin, testTenantID)
	other := "9a0b7c55-1f2e-4d3c-8b7a-6e5d4c3b2a10"
	s.mockUser.On("GetByID", ctx, "user-1").Return(&domain.User{TenantID: &other}, nil)

	_, err := s.service.GetByID(ctx, "user-1")

	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserServiceTestSuite) TestList_ScopedToActorTenant() {
	ctx := actorContext(domain.RoleTenantAdmin, testTenantID)
	s.mockUser.On("List", ctx, domain.UserFilter{TenantID: testTenantID, Limit: domain.DefaultLimit}).
		Return([]domain.User{{Email: "chef@beirutbites.ae"}}, int64(1), nil)

	users, pagination, err := s.service.List(ctx, dto.ListUsersQuery{})

	s.NoError(err)
	s.Len(users, 1)
	s.Equal(1, pagination.Pages)
}
