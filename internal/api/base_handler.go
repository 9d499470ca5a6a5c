package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/service"
	"github.com/kingrain94/restaurant-saas/internal/utils"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

const internalErrorMessage = "Internal server error"

type BaseHandler struct {
	logger *logger.Logger
	// hideInternal suppresses the message of unexpected errors.
	hideInternal bool
}

func NewBaseHandler(logger *logger.Logger, hideInternal bool) *BaseHandler {
	return &BaseHandler{logger: logger, hideInternal: hideInternal}
}

func (h *BaseHandler) RequestCtx(ginCtx *gin.Context) context.Context {
	ctx := ginCtx.Request.Context()
	for k, v := range ginCtx.Keys {
		// Convert string keys to proper context key types to avoid collisions
		contextKey := utils.ContextKey(k)
		ctx = context.WithValue(ctx, contextKey, v)
	}
	return ctx
}

func (h *BaseHandler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewError(err.Error()))
}

// respondError maps service errors onto the HTTP status table.
func (h *BaseHandler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		if h.logger != nil {
			h.logger.Error("Request failed", err)
		}
		if h.hideInternal {
			message = internalErrorMessage
		}
	}
	c.JSON(status, dto.NewError(message))
}

var notFoundErrors = []error{
	service.ErrTenantNotFound,
	service.ErrUserNotFound,
	service.ErrCategoryNotFound,
	service.ErrProductNotFound,
	service.ErrCustomerNotFound,
	service.ErrOrderNotFound,
}

var conflictErrors = []error{
	service.ErrSubdomainTaken,
	service.ErrEmailAlreadyExists,
	service.ErrCategoryInUse,
	service.ErrInvalidTransition,
	service.ErrConcurrentUpdate,
	service.ErrProductUnavailable,
	service.ErrInsufficientStock,
}

func statusFor(err error) int {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation), errors.Is(err, service.ErrTenantRequired):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTenantForbidden):
		return http.StatusForbidden
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
