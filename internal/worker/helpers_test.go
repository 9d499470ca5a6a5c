package worker

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/kingrain94/restaurant-saas/internal/mocks"
	"github.com/kingrain94/restaurant-saas/internal/service/queue"
)

const testTenantID = "6f1c1d2e-8f57-4a3b-9a4e-3c2b1a0f9e8d"

// fakeReceiver hands out its pending messages once and records deletions.
type fakeReceiver struct {
	mu       sync.Mutex
	pending  []queue.ReceivedMessage
	deleted  []string
	receives int
	err      error
}

func (f *fakeReceiver) push(msgs ...queue.ReceivedMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, msgs...)
}

func (f *fakeReceiver) ReceiveMessages(_ context.Context, _ string, _ int32, _ int32) ([]queue.ReceivedMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receives++
	if f.err != nil {
		return nil, f.err
	}
	out := f.pending
	f.pending = nil
	return out, nil
}

func (f *fakeReceiver) DeleteMessage(_ context.Context, _ string, receiptHandle *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(receiptHandle))
	return nil
}

func (f *fakeReceiver) deletedHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func received(handle string, receiveCount int, msg queue.Message) queue.ReceivedMessage {
	return queue.ReceivedMessage{Message: msg, ReceiptHandle: aws.String(handle), ReceiveCount: receiveCount}
}

type scopeMocks struct {
	repo    *mocks.Repository
	pg      *mocks.PostgresRepository
	search  *mocks.SearchRepository
	scope   *mocks.ScopedRepository
	product *mocks.ProductRepository
	order   *mocks.OrderRepository
}

func newScopeMocks() *scopeMocks {
	m := &scopeMocks{
		repo:    new(mocks.Repository),
		pg:      new(mocks.PostgresRepository),
		search:  new(mocks.SearchRepository),
		scope:   new(mocks.ScopedRepository),
		product: new(mocks.ProductRepository),
		order:   new(mocks.OrderRepository),
	}
	m.repo.On("Search").Return(m.search).Maybe()
	m.repo.On("Scoped", testTenantID).Return(m.scope, nil).Maybe()
	m.pg.On("Scoped", testTenantID).Return(m.scope, nil).Maybe()
	m.scope.On("TenantID").Return(testTenantID).Maybe()
	m.scope.On("Product").Return(m.product).Maybe()
	m.scope.On("Order").Return(m.order).Maybe()
	return m
}
