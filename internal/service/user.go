package service

import (
	"context"
	"errors"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/internal/utils"
)

// UserService manages principals. Tenant admins only ever see and create
// users of their own tenant; platform operators see everyone.
type UserService struct {
	repo repository.Repository
}

func NewUserService(repo repository.Repository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	user := req.ToUser()

	if role := utils.GetRoleFromContext(ctx); role != string(domain.RoleSuperAdmin) {
		if user.Role == domain.RoleSuperAdmin {
			return nil, ErrTenantForbidden
		}
		tenantID := utils.GetUserTenantFromContext(ctx)
		if tenantID == "" {
			return nil, ErrTenantRequired
		}
		user.TenantID = &tenantID
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if user.TenantID != nil {
		if _, err := s.repo.Tenant().GetByID(ctx, *user.TenantID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, domain.NewValidationError("tenant does not exist")
			}
			return nil, err
		}
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if !s.canSee(ctx, user) {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, query dto.ListUsersQuery) ([]domain.User, domain.Pagination, error) {
	page := domain.NewPage(query.Page, query.Limit)
	filter := domain.UserFilter{
		Role:   domain.Role(query.Role),
		Active: query.Active,
		Limit:  page.Limit,
		Offset: page.Offset(),
	}
	if utils.GetRoleFromContext(ctx) != string(domain.RoleSuperAdmin) {
		filter.TenantID = utils.GetUserTenantFromContext(ctx)
		if filter.TenantID == "" {
			return nil, domain.Pagination{}, ErrTenantRequired
		}
	} else if tenantID, err := utils.GetTenantIDFromContext(ctx); err == nil {
		filter.TenantID = tenantID
	}

	users, total, err := s.repo.User().List(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return users, domain.NewPagination(page, total), nil
}

func (s *UserService) canSee(ctx context.Context, user *domain.User) bool {
	if utils.GetRoleFromContext(ctx) == string(domain.RoleSuperAdmin) {
		return true
	}
	tenantID := utils.GetUserTenantFromContext(ctx)
	return tenantID != "" && user.TenantID != nil && *user.TenantID == tenantID
}
