package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/service/queue"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type fakeStore struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.input, f.body = in, body
	return &s3.PutObjectOutput{}, nil
}

type ExportWorkerTestSuite struct {
	suite.Suite
	m      *scopeMocks
	store  *fakeStore
	worker *ExportWorker
	ctx    context.Context
}

func TestExportWorkerTestSuite(t *testing.T) {
	suite.Run(t, new(ExportWorkerTestSuite))
}

func (s *ExportWorkerTestSuite) SetupTest() {
	s.m = newScopeMocks()
	s.store = &fakeStore{}
	s.worker = NewExportWorker(&fakeReceiver{}, "export", s.m.pg, s.store, "restaurant-exports", "exports", logger.NewNopLogger(), 1, time.Second)
	s.ctx = context.Background()
}

func exportRequest() *domain.ExportRequest {
	return &domain.ExportRequest{
		ID:          "9b2e4c1a-0d5f-4e8b-a7c3-2f1e6d9b8a70",
		TenantID:    testTenantID,
		Status:      domain.OrderDelivered,
		RequestedBy: "owner@beirut-bites.example.com",
		RequestedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func sampleOrders() []domain.Order {
	created := time.Date(2026, 3, 13, 19, 5, 0, 0, time.UTC)
	return []domain.Order{
		{
			Base:        domain.Base{ID: "o-1", CreatedAt: created},
			OrderNumber: "ORD-1042",
			Customer:    &domain.Customer{Name: "Rania Haddad", Phone: "0501234567"},
			Type:        domain.OrderTypeDelivery,
			Status:      domain.OrderDelivered,
			Items: []domain.OrderItem{
				{ProductName: "Zaatar Manakish", Quantity: 2, UnitPrice: 12.5, Subtotal: 25},
				{ProductName: "Fattoush", Quantity: 1, UnitPrice: 27.5, Subtotal: 30.5,
					SelectedOptions: []domain.SelectedOption{{OptionName: "Size", ChoiceName: "Large", Price: 3}}},
			},
			Delivery: &domain.DeliveryInfo{Address: domain.DeliveryAddress{Street: "12 Al Wasl Rd", City: "Dubai"}, Fee: 10},
			Payment:  domain.Payment{Method: domain.PaymentMethod("cash"), Status: domain.PaymentStatus("paid")},
			Pricing:  domain.Pricing{Subtotal: 55.5, DeliveryFee: 10, Tax: 2.78, Total: 68.28},
		},
		{
			Base:        domain.Base{ID: "o-2", CreatedAt: created.Add(time.Hour)},
			OrderNumber: "ORD-1043",
			Type:        domain.OrderTypePickup,
			Status:      domain.OrderDelivered,
			Items:       []domain.OrderItem{{ProductName: "Hummus", Quantity: 1, UnitPrice: 18, Subtotal: 18}},
			Pricing:     domain.Pricing{Subtotal: 18, Tax: 0.9, Total: 18.9},
		},
	}
}

func (s *ExportWorkerTestSuite) TestExportUploadsWorkbook() {
	req := exportRequest()
	s.m.order.On("ListAll", s.ctx, req.Filter()).Return(sampleOrders(), nil).Once()

	err := s.worker.handleMessage(s.ctx, queue.Message{Type: queue.MessageTypeExportOrders, TenantID: testTenantID, Export: req})
	s.Require().NoError(err)

	s.Require().NotNil(s.store.input)
	s.Equal("restaurant-exports", aws.ToString(s.store.input.Bucket))
	s.Equal(req.ObjectKey("exports"), aws.ToString(s.store.input.Key))
	s.Equal(xlsxContentType, aws.ToString(s.store.input.ContentType))
	s.Equal("2", s.store.input.Metadata["order-count"])
	s.Equal(testTenantID, s.store.input.Metadata["tenant-id"])

	f, err := excelize.OpenReader(bytes.NewReader(s.store.body))
	s.Require().NoError(err)
	defer f.Close()

	rows, err := f.GetRows(ordersSheet)
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal(orderExportHeader, rows[0])
	s.Equal("ORD-1042", rows[1][0])
	s.Equal("2026-03-13 19:05", rows[1][1])
	s.Equal("Rania Haddad", rows[1][4])
	s.Equal("3", rows[1][6])
	s.Equal("12 Al Wasl Rd, Dubai", rows[1][14])
	s.Equal("pickup", rows[2][3])

	items, err := f.GetRows(itemsSheet)
	s.Require().NoError(err)
	s.Require().Len(items, 4)
	s.Equal("Size: Large", items[2][4])
}

func (s *ExportWorkerTestSuite) TestExportWithoutOrdersStillUploads() {
	req := exportRequest()
	s.m.order.On("ListAll", s.ctx, req.Filter()).Return([]domain.Order{}, nil).Once()

	s.Require().NoError(s.worker.export(s.ctx, req))

	f, err := excelize.OpenReader(bytes.NewReader(s.store.body))
	s.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows(ordersSheet)
	s.Require().NoError(err)
	s.Len(rows, 1)
}

func (s *ExportWorkerTestSuite) TestUploadFailureIsRetried() {
	req := exportRequest()
	s.store.err = errors.New("access denied")
	s.m.order.On("ListAll", s.ctx, req.Filter()).Return(sampleOrders(), nil).Once()

	err := s.worker.export(s.ctx, req)

	s.ErrorContains(err, "failed to upload export to S3")
}

func (s *ExportWorkerTestSuite) TestMessageWithoutRequestIsAcknowledged() {
	s.NoError(s.worker.handleMessage(s.ctx, queue.Message{Type: queue.MessageTypeExportOrders}))
	s.Nil(s.store.input)
}
