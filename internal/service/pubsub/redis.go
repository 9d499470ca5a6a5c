package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

const (
	channelPrefix = "orders:"
)

// RedisPubSub fans order events out to every API instance holding a board
// connection for the tenant.
type RedisPubSub struct {
	client       *redis.Client
	logger       *logger.Logger
	subscribers  map[string]*redis.PubSub
	subscriberMu sync.RWMutex
}

func NewRedisPubSub(client *redis.Client, logger *logger.Logger) *RedisPubSub {
	return &RedisPubSub{
		client:      client,
		logger:      logger,
		subscribers: make(map[string]*redis.PubSub),
	}
}

func (ps *RedisPubSub) getChannelName(tenantID string) string {
	return channelPrefix + tenantID
}

func (ps *RedisPubSub) PublishOrderEvent(ctx context.Context, event *domain.OrderEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	channel := ps.getChannelName(event.TenantID)
	if err := ps.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("failed to publish to Redis channel %s: %w", channel, err)
	}

	return nil
}

// Subscribe is idempotent per tenant. The subscription lives until ctx is
// cancelled or Unsubscribe is called.
func (ps *RedisPubSub) Subscribe(ctx context.Context, tenantID string, callback func(*domain.OrderEvent)) error {
	channel := ps.getChannelName(tenantID)

	ps.subscriberMu.Lock()
	if _, exists := ps.subscribers[tenantID]; exists {
		ps.subscriberMu.Unlock()
		return nil
	}
	sub := ps.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		ps.subscriberMu.Unlock()
		sub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	ps.subscribers[tenantID] = sub
	ps.subscriberMu.Unlock()

	go func() {
		defer ps.release(tenantID, sub)

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event domain.OrderEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					ps.logger.Error("Failed to unmarshal order event", err, zap.String("channel", channel))
					continue
				}
				callback(&event)

			case <-ctx.Done():
				return
			}
		}
	}()

	ps.logger.Info("Subscribed to tenant channel", zap.String("channel", channel))
	return nil
}

// release drops sub only if it is still the registered subscription.
func (ps *RedisPubSub) release(tenantID string, sub *redis.PubSub) {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	sub.Close()
	if ps.subscribers[tenantID] == sub {
		delete(ps.subscribers, tenantID)
	}
}

func (ps *RedisPubSub) Unsubscribe(tenantID string) {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	if sub, exists := ps.subscribers[tenantID]; exists {
		sub.Close()
		delete(ps.subscribers, tenantID)
		ps.logger.Info("Unsubscribed from tenant channel", zap.String("channel", ps.getChannelName(tenantID)))
	}
}

func (ps *RedisPubSub) Close() {
	ps.subscriberMu.Lock()
	defer ps.subscriberMu.Unlock()

	for tenantID, sub := range ps.subscribers {
		sub.Close()
		delete(ps.subscribers, tenantID)
	}
}
