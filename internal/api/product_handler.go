package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
)

//go:generate mockery --name ProductService --structname MockProductService --output ../mocks
type ProductService interface {
	List(ctx context.Context, query dto.ListProductsQuery) ([]domain.Product, domain.Pagination, error)
	Create(ctx context.Context, req dto.ProductRequest) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, req dto.ProductRequest) (*domain.Product, error)
	Delete(ctx context.Context, id string) (*domain.Product, error)
	Reindex(ctx context.Context) error
}

type ProductHandler struct {
	*BaseHandler
	service ProductService
}

func NewProductHandler(service ProductService, base *BaseHandler) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// ListProducts godoc
// @Summary List or search products
// @Description Paginated catalog with the category preloaded. A q parameter switches to full-text search.
// @Tags products
// @Produce json
// @Param category query string false "Category ID"
// @Param active query bool false "Active filter"
// @Param q query string false "Full-text query"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.ListResponse{data=[]domain.Product}
// @Failure 400 {object} dto.Error
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var query dto.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	products, pagination, err := h.service.List(h.RequestCtx(c), query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.List(products, pagination))
}

// CreateProduct godoc
// @Summary Create a product
// @Description name, price and category are required. The category must belong to the same restaurant.
// @Tags products
// @Accept json
// @Produce json
// @Param body body dto.ProductRequest true "Product object"
// @Success 201 {object} dto.Response{data=domain.Product}
// @Failure 400 {object} dto.Error
// @Failure 403 {object} dto.Error
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	product, err := h.service.Create(h.RequestCtx(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OK(product))
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.Response{data=domain.Product}
// @Failure 404 {object} dto.Error
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetByID(h.RequestCtx(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(product))
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body dto.ProductRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=domain.Product}
// @Failure 400 {object} dto.Error
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	product, err := h.service.Update(h.RequestCtx(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(product))
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.Response{data=domain.Product}
// @Failure 404 {object} dto.Error
// @Security BearerAuth
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	product, err := h.service.Delete(h.RequestCtx(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(product))
}

// ReindexProducts godoc
// @Summary Rebuild the search index of the restaurant
// @Tags products
// @Produce json
// @Success 202 {object} dto.Response
// @Security BearerAuth
// @Router /products/reindex [post]
func (h *ProductHandler) ReindexProducts(c *gin.Context) {
	if err := h.service.Reindex(h.RequestCtx(c)); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.OK(gin.H{"status": "queued"}))
}
