package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
)

//go:generate mockery --name CategoryService --structname MockCategoryService --output ../mocks
type CategoryService interface {
	List(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error)
	Create(ctx context.Context, req dto.CategoryRequest) (*domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Update(ctx context.Context, id string, req dto.CategoryRequest) (*domain.Category, error)
	Delete(ctx context.Context, id string) (*domain.Category, error)
}

type CategoryHandler struct {
	*BaseHandler
	service CategoryService
}

func NewCategoryHandler(service CategoryService, base *BaseHandler) *CategoryHandler {
	return &CategoryHandler{BaseHandler: base, service: service}
}

// ListCategories godoc
// @Summary List menu categories
// @Description Sorted by sort_order ascending, newest first on ties
// @Tags categories
// @Produce json
// @Param active query bool false "Only active or inactive categories"
// @Success 200 {object} dto.Response{data=[]domain.Category}
// @Failure 400 {object} dto.Error
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var query dto.ListCategoriesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	categories, err := h.service.List(h.RequestCtx(c), query.ToFilter())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(categories))
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param body body dto.CategoryRequest true "Category object"
// @Success 201 {object} dto.Response{data=domain.Category}
// @Failure 400 {object} dto.Error
// @Failure 403 {object} dto.Error
// @Security BearerAuth
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	category, err := h.service.Create(h.RequestCtx(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(category))
}

// GetCategory godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} dto.Response{data=domain.Category}
// @Failure 404 {object} dto.Error
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.service.GetByID(h.RequestCtx(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(category))
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param body body dto.CategoryRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=domain.Category}
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	category, err := h.service.Update(h.RequestCtx(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(category))
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Refused with 409 while products still reference it
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} dto.Response{data=domain.Category}
// @Failure 404 {object} dto.Error
// @Failure 409 {object} dto.Error
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	category, err := h.service.Delete(h.RequestCtx(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(category))
}
