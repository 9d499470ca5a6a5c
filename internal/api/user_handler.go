package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
)

//go:generate mockery --name UserService --structname MockUserService --output ../mocks
type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, query dto.ListUsersQuery) ([]domain.User, domain.Pagination, error)
}

type UserHandler struct {
	*BaseHandler
	service UserService
}

func NewUserHandler(service UserService, base *BaseHandler) *UserHandler {
	return &UserHandler{BaseHandler: base, service: service}
}

// CreateUser godoc
// @Summary Create a user
// @Description Tenant admins can only create users inside their own tenant
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.CreateUserRequest true "User object"
// @Success 201 {object} dto.Response{data=domain.User}
// @Failure 400 {object} dto.Error
// @Failure 403 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	user, err := h.service.Create(h.RequestCtx(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(user))
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param role query string false "Role filter"
// @Param active query bool false "Active filter"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.ListResponse{data=[]domain.User}
// @Failure 400 {object} dto.Error
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var query dto.ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	users, pagination, err := h.service.List(h.RequestCtx(c), query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.List(users, pagination))
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.Response{data=domain.User}
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetByID(h.RequestCtx(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(user))
}
