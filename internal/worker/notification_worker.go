package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/service/queue"
	"github.com/kingrain94/restaurant-saas/internal/whatsapp"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

// Sender delivers customer notifications.
type Sender interface {
	SendOrderNotification(ctx context.Context, order *domain.OrderNotification, phone string) whatsapp.Result
	SendStatusUpdate(ctx context.Context, order *domain.OrderNotification, phone string, status domain.OrderStatus) whatsapp.Result
}

// NotificationWorker consumes order events and messages the customer. While
// the WhatsApp session is not ready, messages stay on the queue.
type NotificationWorker struct {
	*consumer
	sender Sender
	logger *logger.Logger
}

func NewNotificationWorker(
	receiver Receiver,
	queueURL string,
	sender Sender,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *NotificationWorker {
	w := &NotificationWorker{
		sender: sender,
		logger: logger.Named("notification"),
	}
	w.consumer = newConsumer("notification", receiver, queueURL, w.handleMessage, logger, workerCount, pollInterval)
	return w
}

func (w *NotificationWorker) handleMessage(ctx context.Context, msg queue.Message) error {
	if msg.Notification == nil || msg.Phone == "" {
		w.logger.Warn("Dropping notification without order or phone", zap.String("type", string(msg.Type)))
		return nil
	}

	var result whatsapp.Result
	switch msg.Type {
	case queue.MessageTypeOrderCreated:
		result = w.sender.SendOrderNotification(ctx, msg.Notification, msg.Phone)
	case queue.MessageTypeOrderStatus:
		if !msg.Status.Notifies() {
			return nil
		}
		result = w.sender.SendStatusUpdate(ctx, msg.Notification, msg.Phone, msg.Status)
	default:
		w.logger.Warn("Ignoring unexpected message on the notification queue", zap.String("type", string(msg.Type)))
		return nil
	}

	return w.outcome(msg, result)
}

// outcome maps a send result to the queue decision: delivered and permanently
// undeliverable messages are removed, anything else is retried.
func (w *NotificationWorker) outcome(msg queue.Message, result whatsapp.Result) error {
	if result.Success {
		w.logger.Info("Customer notified",
			zap.String("tenant_id", msg.TenantID),
			zap.String("order_number", msg.Notification.OrderNumber),
			zap.String("message_id", result.MessageID))
		return nil
	}

	err := result.Err()
	switch {
	case errors.Is(err, whatsapp.ErrNotReady):
		return fmt.Errorf("%w: %v", errRetryLater, err)
	case errors.Is(err, whatsapp.ErrInvalidPhone),
		errors.Is(err, whatsapp.ErrNotRegistered),
		errors.Is(err, whatsapp.ErrInvalidStatus):
		w.logger.Warn("Customer cannot be notified",
			zap.String("tenant_id", msg.TenantID),
			zap.String("order_number", msg.Notification.OrderNumber),
			zap.Error(err))
		return nil
	case err == nil:
		return errors.New(result.Error)
	default:
		return err
	}
}
