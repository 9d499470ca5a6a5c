package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
)

//go:generate mockery --name CustomerService --structname MockCustomerService --output ../mocks
type CustomerService interface {
	List(ctx context.Context, query dto.ListCustomersQuery) ([]domain.Customer, domain.Pagination, error)
	Create(ctx context.Context, req dto.CustomerRequest) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, id string, req dto.CustomerRequest) (*domain.Customer, error)
}

type CustomerHandler struct {
	*BaseHandler
	service CustomerService
}

func NewCustomerHandler(service CustomerService, base *BaseHandler) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, service: service}
}

// ListCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Param phone query string false "Exact phone"
// @Param email query string false "Exact email"
// @Param search query string false "Name or phone fragment"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.ListResponse{data=[]domain.Customer}
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	var query dto.ListCustomersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	customers, pagination, err := h.service.List(h.RequestCtx(c), query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.List(customers, pagination))
}

// CreateCustomer godoc
// @Summary Create a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param body body dto.CustomerRequest true "Customer object"
// @Success 201 {object} dto.Response{data=domain.Customer}
// @Failure 400 {object} dto.Error
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	customer, err := h.service.Create(h.RequestCtx(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(customer))
}

// GetCustomer godoc
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.Response{data=domain.Customer}
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.service.GetByID(h.RequestCtx(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(customer))
}

// UpdateCustomer godoc
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param body body dto.CustomerRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=domain.Customer}
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var req dto.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	customer, err := h.service.Update(h.RequestCtx(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(customer))
}
