package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/service/queue"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

// errRetryLater leaves a message on the queue without counting it as poison.
var errRetryLater = errors.New("retry later")

// messages received this many times are dropped once their handler fails again
const defaultMaxReceives = 5

// Receiver is the part of the queue service a worker consumes from.
type Receiver interface {
	ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]queue.ReceivedMessage, error)
	DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error
}

type handlerFunc func(ctx context.Context, msg queue.Message) error

// consumer runs workerCount goroutines that poll one queue and hand every
// message to handle. A message is deleted only once it was handled.
type consumer struct {
	name         string
	receiver     Receiver
	queueURL     string
	handle       handlerFunc
	logger       *logger.Logger
	workerCount  int
	pollInterval time.Duration
	maxMessages  int32
	waitTime     int32
	maxReceives  int
	shutdownChan chan struct{}
	waitGroup    sync.WaitGroup
	stopOnce     sync.Once
	ctx          context.Context
	cancel       context.CancelFunc
}

func newConsumer(name string, receiver Receiver, queueURL string, handle handlerFunc, logger *logger.Logger, workerCount int, pollInterval time.Duration) *consumer {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &consumer{
		name:         name,
		receiver:     receiver,
		queueURL:     queueURL,
		handle:       handle,
		logger:       logger.Named(name),
		workerCount:  workerCount,
		pollInterval: pollInterval,
		maxMessages:  10, // Process up to 10 messages at a time
		waitTime:     20, // Long polling: wait up to 20 seconds for messages
		maxReceives:  defaultMaxReceives,
		shutdownChan: make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (c *consumer) Start() {
	c.logger.Infof("Starting %d %s workers...", c.workerCount, c.name)

	for i := 0; i < c.workerCount; i++ {
		c.waitGroup.Add(1)
		go c.runWorker(i)
	}
}

// Stop waits for in-flight messages to finish. Pending long polls are cancelled.
func (c *consumer) Stop() {
	c.stopOnce.Do(func() {
		c.logger.Infof("Stopping %s workers...", c.name)
		close(c.shutdownChan)
		c.cancel()
		c.waitGroup.Wait()
		c.logger.Infof("All %s workers stopped", c.name)
	})
}

func (c *consumer) runWorker(workerID int) {
	defer c.waitGroup.Done()

	c.logger.Infof("Worker %d started", workerID)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.shutdownChan:
			c.logger.Infof("Worker %d shutting down", workerID)
			return
		case <-ticker.C:
			if err := c.processMessages(c.ctx); err != nil && c.ctx.Err() == nil {
				c.logger.Errorf("Worker %d failed to process messages: %v", workerID, err)
			}
		}
	}
}

func (c *consumer) processMessages(ctx context.Context) error {
	messages, err := c.receiver.ReceiveMessages(ctx, c.queueURL, c.maxMessages, c.waitTime)
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, msg := range messages {
		// Messages already received are finished even when shutting down.
		c.process(context.WithoutCancel(ctx), msg)
	}
	return nil
}

func (c *consumer) process(ctx context.Context, msg queue.ReceivedMessage) {
	fields := []zap.Field{
		zap.String("type", string(msg.Message.Type)),
		zap.String("tenant_id", msg.Message.TenantID),
		zap.Int("receive_count", msg.ReceiveCount),
	}

	err := c.handle(ctx, msg.Message)
	switch {
	case err == nil:
	case errors.Is(err, errRetryLater):
		c.logger.Info("Message left on the queue for a later attempt", append(fields, zap.Error(err))...)
		return
	case msg.ReceiveCount >= c.maxReceives:
		c.logger.Error("Dropping message after repeated failures", err, fields...)
	default:
		c.logger.Error("Failed to process message", err, fields...)
		return
	}

	if err := c.receiver.DeleteMessage(ctx, c.queueURL, msg.ReceiptHandle); err != nil {
		c.logger.Error("Failed to delete message", err, fields...)
	}
}
