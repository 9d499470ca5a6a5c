package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/api/dto"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/utils"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

const (
	websocketReadBufferSize        = 1024
	websocketWriteBufferSize       = 1024
	websocketSendChannelBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  websocketReadBufferSize,
	WriteBufferSize: websocketWriteBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventSubscriber delivers the order events of one tenant.
type EventSubscriber interface {
	Subscribe(ctx context.Context, tenantID string, callback func(*domain.OrderEvent)) error
	Unsubscribe(tenantID string)
	Close()
}

type Client struct {
	conn     *websocket.Conn
	tenantID string
	send     chan []byte
}

// WebSocketHandler serves the live order board. Redis subscriptions are held
// only while a tenant has at least one board open on this instance.
type WebSocketHandler struct {
	clients       map[*Client]bool
	register      chan *Client
	unregister    chan *Client
	mutex         sync.RWMutex
	logger        *logger.Logger
	events        EventSubscriber
	ctx           context.Context
	cancel        context.CancelFunc
	tenantClients map[string]int // Count of clients per tenant
}

func NewWebSocketHandler(events EventSubscriber, logger *logger.Logger) *WebSocketHandler {
	ctx, cancel := context.WithCancel(context.Background())
	return &WebSocketHandler{
		clients:       make(map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		logger:        logger,
		events:        events,
		ctx:           ctx,
		cancel:        cancel,
		tenantClients: make(map[string]int),
	}
}

// HandleWebSocket godoc
// @Summary Live order board
// @Description Upgrades to a websocket that streams order events of the resolved restaurant
// @Tags orders
// @Security BearerAuth
// @Router /orders/stream [get]
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	tenantID := c.GetString(string(utils.TenantIDKey))
	if tenantID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewError("Tenant could not be determined"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", err)
		return
	}

	client := &Client{
		conn:     conn,
		tenantID: tenantID,
		send:     make(chan []byte, websocketSendChannelBufferSize),
	}
	select {
	case h.register <- client:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

func (h *WebSocketHandler) Start() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.tenantClients[client.tenantID]++
			first := h.tenantClients[client.tenantID] == 1
			h.mutex.Unlock()

			if first {
				if err := h.events.Subscribe(h.ctx, client.tenantID, h.handleOrderEvent); err != nil {
					h.logger.Error("Failed to subscribe to tenant orders", err, zap.String("tenant_id", client.tenantID))
				}
			}

		case client := <-h.unregister:
			h.mutex.Lock()
			h.removeLocked(client)
			h.mutex.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *WebSocketHandler) Stop() {
	h.cancel()
	h.events.Close()
}

// removeLocked must be called with the write lock held.
func (h *WebSocketHandler) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	h.tenantClients[client.tenantID]--
	if h.tenantClients[client.tenantID] == 0 {
		h.events.Unsubscribe(client.tenantID)
		delete(h.tenantClients, client.tenantID)
	}
}

func (h *WebSocketHandler) handleOrderEvent(event *domain.OrderEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal order event", err)
		return
	}

	var slow []*Client
	h.mutex.RLock()
	for client := range h.clients {
		if client.tenantID != event.TenantID {
			continue
		}
		select {
		case client.send <- message:
		default:
			slow = append(slow, client)
		}
	}
	h.mutex.RUnlock()

	if len(slow) == 0 {
		return
	}
	// Boards that cannot keep up are dropped; they reconnect and reload.
	h.mutex.Lock()
	for _, client := range slow {
		h.removeLocked(client)
	}
	h.mutex.Unlock()
}

func (h *WebSocketHandler) writePump(client *Client) {
	defer client.conn.Close()

	for message := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	client.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *WebSocketHandler) readPump(client *Client) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.ctx.Done():
		}
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("Unexpected close error", zap.String("tenant_id", client.tenantID), zap.Error(err))
			}
			return
		}
	}
}

// ConnectedClients reports how many boards of a tenant are open on this instance.
func (h *WebSocketHandler) ConnectedClients(tenantID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.tenantClients[tenantID]
}
