package whatsapp

import (
	"context"
	"sync"
	"time"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type sentMessage struct {
	chatID string
	text   string
}

// fakeTransport records calls and lets tests drive lifecycle events.
type fakeTransport struct {
	mu           sync.Mutex
	events       EventHandler
	initCalls    int
	destroyCalls int
	initErr      error
	registered   bool
	sendErr      error
	sent         []sentMessage
	checked      []string
	onInit       func(EventHandler)
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{registered: true}
}

func (f *fakeTransport) Initialize(_ context.Context, events EventHandler) error {
	f.mu.Lock()
	f.events = events
	f.initCalls++
	err, hook := f.initErr, f.onInit
	f.mu.Unlock()

	if err == nil && hook != nil {
		hook(events)
	}
	return err
}

func (f *fakeTransport) Destroy(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyCalls++
	return nil
}

func (f *fakeTransport) IsRegisteredUser(_ context.Context, chatID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, chatID)
	return f.registered, nil
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return "true_" + chatID + "_3EB0C767D26A", nil
}

func (f *fakeTransport) Info(context.Context) (*ClientInfo, error) {
	return &ClientInfo{User: "971500000000", Phone: "971500000000@c.us", PushName: "Beirut Bites"}, nil
}

func (f *fakeTransport) inits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initCalls
}

func (f *fakeTransport) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func testPolicy() SessionPolicy {
	return SessionPolicy{
		AuthFailureRetryDelay: 10 * time.Millisecond,
		ReconnectDelay:        10 * time.Millisecond,
		RestartDelay:          10 * time.Millisecond,
		MaxReconnectAttempts:  2,
	}
}

// readySession returns a session whose transport reports ready on init.
func readySession(transport *fakeTransport) *Session {
	transport.onInit = func(events EventHandler) {
		events.OnAuthenticated()
		events.OnReady()
	}
	s := NewSession(transport, testPolicy(), logger.NewNopLogger())
	s.Start()
	return s
}

func uaePhones() PhoneFormat {
	return PhoneFormat{CountryCode: "971", LocalLength: 9}
}

func sampleNotification(orderType domain.OrderType) *domain.OrderNotification {
	n := &domain.OrderNotification{
		OrderNumber: "ORD-20250714-4821",
		Restaurant:  domain.NotificationRestaurant{Name: "Beirut Bites", Address: "Shop 4, Marina Walk, Dubai"},
		Customer:    domain.NotificationCustomer{Name: "Layla Haddad", Phone: "0501234567"},
		Type:        orderType,
		Items: []domain.NotificationItem{
			{ProductName: "Chicken Shawarma", Quantity: 2, UnitPrice: 25},
		},
		Pricing:   domain.Pricing{Subtotal: 50, Tax: 2.5, Total: 52.5},
		CreatedAt: time.Date(2025, 7, 14, 12, 30, 0, 0, time.UTC),
	}
	if orderType == domain.OrderTypeDelivery {
		n.Pricing.DeliveryFee = 10
		n.Pricing.Total = 62.5
		n.Delivery = &domain.NotificationDelivery{
			Street:        "Al Sufouh Road, Villa 12",
			City:          "Dubai",
			Instructions:  "Ring twice",
			EstimatedTime: 25,
		}
	}
	return n
}
