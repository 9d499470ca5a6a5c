package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

var (
	ErrNotReady      = errors.New("WhatsApp client not ready")
	ErrInvalidStatus = errors.New("status does not notify the customer")
	ErrNotRegistered = errors.New("is not registered on WhatsApp")
)

// Result is the outcome of one send. Failures are reported, never raised.
type Result struct {
	Success   bool      `json:"success"`
	MessageID string    `json:"message_id,omitempty"`
	To        string    `json:"to,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	err error
}

// Err returns the cause of a failed send.
func (r Result) Err() error {
	return r.err
}

// Status is what the worker reports about its session.
type Status struct {
	Ready       bool        `json:"ready"`
	State       State       `json:"state"`
	QRAvailable bool        `json:"qr_available"`
	Client      *ClientInfo `json:"client,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// Notifier sends customer messages through the session's transport. Every
// send fails closed while the session is not ready.
type Notifier struct {
	session   *Session
	transport Transport
	templates *Templates
	phones    PhoneFormat
	limiter   *rate.Limiter
	logger    *logger.Logger
	now       func() time.Time
}

// NewNotifier throttles sends to perMinute messages; zero or less disables throttling.
func NewNotifier(session *Session, transport Transport, templates *Templates, phones PhoneFormat, perMinute int, logger *logger.Logger) *Notifier {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
	return &Notifier{
		session:   session,
		transport: transport,
		templates: templates,
		phones:    phones,
		limiter:   limiter,
		logger:    logger.Named("notifier"),
		now:       time.Now,
	}
}

func (n *Notifier) IsReady() bool {
	return n.session.IsReady()
}

// SendMessage delivers text to a phone number after checking it is on WhatsApp.
func (n *Notifier) SendMessage(ctx context.Context, phone, text string) Result {
	if !n.session.IsReady() {
		return n.fail(phone, ErrNotReady)
	}

	digits, err := n.phones.Normalize(phone)
	if err != nil {
		return n.fail(phone, err)
	}
	chatID := ChatID(digits)

	if err := n.limiter.Wait(ctx); err != nil {
		return n.fail(phone, fmt.Errorf("send throttled: %w", err))
	}

	registered, err := n.transport.IsRegisteredUser(ctx, chatID)
	if err != nil {
		return n.fail(phone, err)
	}
	if !registered {
		return n.fail(phone, fmt.Errorf("Number %s %w", phone, ErrNotRegistered))
	}

	id, err := n.transport.SendMessage(ctx, chatID, text)
	if err != nil {
		return n.fail(phone, err)
	}

	n.logger.Info("WhatsApp message sent", zap.String("to", digits))
	return Result{Success: true, MessageID: id, To: digits, Timestamp: n.now()}
}

// SendOrderNotification sends the new-order summary.
func (n *Notifier) SendOrderNotification(ctx context.Context, order *domain.OrderNotification, phone string) Result {
	if !n.session.IsReady() {
		return n.fail(phone, ErrNotReady)
	}
	text, err := n.templates.OrderCreated(order)
	if err != nil {
		return n.fail(phone, err)
	}
	return n.SendMessage(ctx, phone, text)
}

// SendStatusUpdate sends the message for a notifying status.
func (n *Notifier) SendStatusUpdate(ctx context.Context, order *domain.OrderNotification, phone string, status domain.OrderStatus) Result {
	if !status.Notifies() {
		return n.fail(phone, ErrInvalidStatus)
	}
	if !n.session.IsReady() {
		return n.fail(phone, ErrNotReady)
	}
	text, err := n.templates.StatusUpdate(order, status)
	if err != nil {
		return n.fail(phone, err)
	}
	return n.SendMessage(ctx, phone, text)
}

// ClientInfo reports the session and, once ready, the linked account.
func (n *Notifier) ClientInfo(ctx context.Context) Status {
	_, hasQR := n.session.QR()
	status := Status{
		Ready:       n.session.IsReady(),
		State:       n.session.State(),
		QRAvailable: hasQR,
	}
	if !status.Ready {
		return status
	}

	info, err := n.transport.Info(ctx)
	if err != nil {
		n.logger.Error("Failed to get client info", err)
		status.Error = err.Error()
		return status
	}
	status.Client = info
	return status
}

func (n *Notifier) fail(phone string, err error) Result {
	if !errors.Is(err, ErrNotReady) {
		n.logger.Warn("WhatsApp send failed", zap.String("phone", phone), zap.Error(err))
	}
	return Result{Success: false, Error: err.Error(), Timestamp: n.now(), err: err}
}
