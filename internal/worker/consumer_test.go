package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kingrain94/restaurant-saas/internal/service/queue"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

func newTestConsumer(receiver *fakeReceiver, handle handlerFunc) *consumer {
	c := newConsumer("test", receiver, "queue", handle, logger.NewNopLogger(), 1, 5*time.Millisecond)
	c.waitTime = 0
	return c
}

func TestConsumer_DeletesHandledMessages(t *testing.T) {
	receiver := &fakeReceiver{}
	receiver.push(
		received("a", 1, queue.Message{Type: queue.MessageTypeIndexProduct}),
		received("b", 1, queue.Message{Type: queue.MessageTypeIndexProduct}),
	)
	c := newTestConsumer(receiver, func(context.Context, queue.Message) error { return nil })

	assert.NoError(t, c.processMessages(context.Background()))
	assert.Equal(t, []string{"a", "b"}, receiver.deletedHandles())
}

func TestConsumer_KeepsFailedMessages(t *testing.T) {
	receiver := &fakeReceiver{}
	receiver.push(received("a", 1, queue.Message{}))
	c := newTestConsumer(receiver, func(context.Context, queue.Message) error { return errors.New("opensearch down") })

	assert.NoError(t, c.processMessages(context.Background()))
	assert.Empty(t, receiver.deletedHandles())
}

func TestConsumer_DropsPoisonMessages(t *testing.T) {
	receiver := &fakeReceiver{}
	receiver.push(received("poison", defaultMaxReceives, queue.Message{}))
	c := newTestConsumer(receiver, func(context.Context, queue.Message) error { return errors.New("always fails") })

	assert.NoError(t, c.processMessages(context.Background()))
	assert.Equal(t, []string{"poison"}, receiver.deletedHandles())
}

func TestConsumer_RetryLaterIsNeverDropped(t *testing.T) {
	receiver := &fakeReceiver{}
	receiver.push(received("later", defaultMaxReceives+10, queue.Message{}))
	c := newTestConsumer(receiver, func(context.Context, queue.Message) error {
		return fmt.Errorf("%w: session not ready", errRetryLater)
	})

	assert.NoError(t, c.processMessages(context.Background()))
	assert.Empty(t, receiver.deletedHandles())
}

func TestConsumer_ReceiveError(t *testing.T) {
	receiver := &fakeReceiver{err: errors.New("throttled")}
	c := newTestConsumer(receiver, func(context.Context, queue.Message) error { return nil })

	err := c.processMessages(context.Background())
	assert.ErrorContains(t, err, "failed to receive messages")
}

func TestConsumer_StartStop(t *testing.T) {
	receiver := &fakeReceiver{}
	var handled atomic.Int32
	c := newTestConsumer(receiver, func(context.Context, queue.Message) error {
		handled.Add(1)
		return nil
	})
	c.workerCount = 2

	c.Start()
	receiver.push(received("a", 1, queue.Message{}), received("b", 1, queue.Message{}))

	assert.Eventually(t, func() bool { return handled.Load() == 2 }, time.Second, 5*time.Millisecond)
	c.Stop()
	c.Stop()

	assert.ElementsMatch(t, []string{"a", "b"}, receiver.deletedHandles())
}
