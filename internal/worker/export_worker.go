package worker

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/repository"
	"github.com/kingrain94/restaurant-saas/internal/service/queue"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ordersSheet     = "Orders"
	itemsSheet      = "Items"
)

var orderExportHeader = []string{
	"Order Number", "Created At", "Status", "Type", "Customer", "Phone",
	"Items", "Subtotal", "Delivery Fee", "Tax", "Discount", "Total",
	"Payment Method", "Payment Status", "Delivery Address", "Notes",
}

var itemExportHeader = []string{
	"Order Number", "Product", "Quantity", "Unit Price", "Options", "Subtotal",
}

// ObjectStore is the part of the S3 API the export worker writes with.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ExportWorker turns export requests into XLSX reports stored in the bucket.
type ExportWorker struct {
	*consumer
	repository repository.PostgresRepository
	store      ObjectStore
	bucket     string
	keyPrefix  string
	logger     *logger.Logger
}

func NewExportWorker(
	receiver Receiver,
	queueURL string,
	repository repository.PostgresRepository,
	store ObjectStore,
	bucket, keyPrefix string,
	logger *logger.Logger,
	workerCount int,
	pollInterval time.Duration,
) *ExportWorker {
	w := &ExportWorker{
		repository: repository,
		store:      store,
		bucket:     bucket,
		keyPrefix:  keyPrefix,
		logger:     logger.Named("export"),
	}
	w.consumer = newConsumer("export", receiver, queueURL, w.handleMessage, logger, workerCount, pollInterval)
	return w
}

func (w *ExportWorker) handleMessage(ctx context.Context, msg queue.Message) error {
	if msg.Type != queue.MessageTypeExportOrders || msg.Export == nil {
		w.logger.Warn("Ignoring unexpected message on the export queue", zap.String("type", string(msg.Type)))
		return nil
	}
	return w.export(ctx, msg.Export)
}

func (w *ExportWorker) export(ctx context.Context, req *domain.ExportRequest) error {
	w.logger.Infof("Processing export %s for tenant %s", req.ID, req.TenantID)

	scope, err := w.repository.Scoped(req.TenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant %q: %w", req.TenantID, err)
	}

	orders, err := scope.Order().ListAll(ctx, req.Filter())
	if err != nil {
		return fmt.Errorf("failed to fetch orders for export %s: %w", req.ID, err)
	}

	data, err := BuildOrdersWorkbook(orders)
	if err != nil {
		return fmt.Errorf("failed to build workbook for export %s: %w", req.ID, err)
	}

	key := req.ObjectKey(w.keyPrefix)
	_, err = w.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(xlsxContentType),
		Metadata: map[string]string{
			"tenant-id":    req.TenantID,
			"export-id":    req.ID,
			"order-count":  strconv.Itoa(len(orders)),
			"requested-by": req.RequestedBy,
			"exported-at":  time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload export to S3: %w", err)
	}

	w.logger.Infof("Uploaded export with %d orders to s3://%s/%s", len(orders), w.bucket, key)
	return nil
}

// BuildOrdersWorkbook renders one row per order and one row per order line.
func BuildOrdersWorkbook(orders []domain.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ordersSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, ordersSheet, orderExportHeader, headerStyle); err != nil {
		return nil, err
	}
	if err := writeHeader(f, itemsSheet, itemExportHeader, headerStyle); err != nil {
		return nil, err
	}

	itemRow := 2
	for i := range orders {
		order := &orders[i]
		if err := writeRow(f, ordersSheet, i+2, orderRow(order)); err != nil {
			return nil, err
		}
		for _, item := range order.Items {
			row := []any{order.OrderNumber, item.ProductName, item.Quantity, item.UnitPrice, optionsLabel(item.SelectedOptions), item.Subtotal}
			if err := writeRow(f, itemsSheet, itemRow, row); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func orderRow(order *domain.Order) []any {
	var customer, phone, address string
	if order.Customer != nil {
		customer, phone = order.Customer.Name, order.Customer.Phone
	}
	if order.Delivery != nil {
		address = joinNonEmpty(", ", order.Delivery.Address.Street, order.Delivery.Address.City)
	}
	items := 0
	for _, item := range order.Items {
		items += item.Quantity
	}

	return []any{
		order.OrderNumber,
		order.CreatedAt.UTC().Format("2006-01-02 15:04"),
		string(order.Status),
		string(order.Type),
		customer,
		phone,
		items,
		order.Pricing.Subtotal,
		order.Pricing.DeliveryFee,
		order.Pricing.Tax,
		order.Pricing.Discount,
		order.Pricing.Total,
		string(order.Payment.Method),
		string(order.Payment.Status),
		address,
		order.Notes,
	}
}

func optionsLabel(options []domain.SelectedOption) string {
	parts := make([]string, 0, len(options))
	for _, o := range options {
		parts = append(parts, o.OptionName+": "+o.ChoiceName)
	}
	return strings.Join(parts, "; ")
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := writeRow(f, sheet, 1, row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
