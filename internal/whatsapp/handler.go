package whatsapp

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type SendRequest struct {
	Phone   string `json:"phone" binding:"required" example:"0501234567"`
	Message string `json:"message" binding:"required" example:"Your table is ready"`
}

type OrderNotificationRequest struct {
	Order *domain.OrderNotification `json:"order" binding:"required"`
	Phone string                    `json:"phone" binding:"required"`
}

type StatusUpdateRequest struct {
	Order  *domain.OrderNotification `json:"order" binding:"required"`
	Phone  string                    `json:"phone" binding:"required"`
	Status domain.OrderStatus        `json:"status" binding:"required" example:"ready"`
}

// Handler is the notifier's HTTP surface.
type Handler struct {
	notifier *Notifier
	session  *Session
	logger   *logger.Logger
}

func NewHandler(notifier *Notifier, session *Session, logger *logger.Logger) *Handler {
	return &Handler{notifier: notifier, session: session, logger: logger}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	wa := r.Group("/whatsapp")
	{
		wa.GET("/status", h.Status)
		wa.GET("/qr", h.QR)
		wa.POST("/send", h.Send)
		wa.POST("/order-notification", h.OrderNotification)
		wa.POST("/status-update", h.StatusUpdate)
		wa.POST("/restart", h.Restart)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "restaurant-notifier",
		"whatsapp":  h.session.State(),
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) Status(c *gin.Context) {
	qr, _ := h.session.QR()
	c.JSON(http.StatusOK, gin.H{
		"ready":     h.session.IsReady(),
		"qr":        nullable(qr),
		"client":    h.notifier.ClientInfo(c.Request.Context()),
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) QR(c *gin.Context) {
	qr, ok := h.session.QR()
	if !ok {
		message := "No QR code available"
		if h.session.IsReady() {
			message = "Already authenticated"
		}
		c.JSON(http.StatusOK, gin.H{"qr": nil, "ready": h.session.IsReady(), "message": message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"qr": qr, "ready": false, "message": "Scan this QR code with WhatsApp"})
}

func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("Missing required fields: phone, message"))
		return
	}
	if !h.requireReady(c) {
		return
	}

	h.respond(c, h.notifier.SendMessage(c.Request.Context(), req.Phone, req.Message), gin.H{"phone": req.Phone})
}

func (h *Handler) OrderNotification(c *gin.Context) {
	var req OrderNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("Missing required fields: order, phone"))
		return
	}
	if !h.requireReady(c) {
		return
	}

	h.respond(c, h.notifier.SendOrderNotification(c.Request.Context(), req.Order, req.Phone), gin.H{"type": "order_notification"})
}

func (h *Handler) StatusUpdate(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError("Missing required fields: order, phone, status"))
		return
	}
	if !req.Status.Notifies() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":        false,
			"error":          "Invalid status",
			"valid_statuses": domain.NotifiableStatuses,
		})
		return
	}
	if !h.requireReady(c) {
		return
	}

	result := h.notifier.SendStatusUpdate(c.Request.Context(), req.Order, req.Phone, req.Status)
	h.respond(c, result, gin.H{"type": "status_update", "status": req.Status})
}

func (h *Handler) Restart(c *gin.Context) {
	if err := h.session.Restart(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Client restart initiated"})
}

func (h *Handler) requireReady(c *gin.Context) bool {
	if h.session.IsReady() {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, dto.NewError(ErrNotReady.Error()))
	return false
}

func (h *Handler) respond(c *gin.Context, result Result, extra gin.H) {
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     result.Error,
			"timestamp": result.Timestamp,
		})
		return
	}

	body := gin.H{
		"success":    true,
		"message_id": result.MessageID,
		"timestamp":  result.Timestamp,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
