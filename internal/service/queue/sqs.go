package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/domain"
)

type MessageType string

const (
	MessageTypeIndexProduct  MessageType = "INDEX_PRODUCT"
	MessageTypeDeleteProduct MessageType = "DELETE_PRODUCT"
	MessageTypeReindex       MessageType = "REINDEX_TENANT"
	MessageTypeOrderCreated  MessageType = "ORDER_CREATED"
	MessageTypeOrderStatus   MessageType = "ORDER_STATUS"
	MessageTypeExportOrders  MessageType = "EXPORT_ORDERS"
)

type Message struct {
	Type      MessageType `json:"type"`
	TenantID  string      `json:"tenant_id"`
	Timestamp time.Time   `json:"timestamp"`

	// Product index operations
	ProductID string `json:"product_id,omitempty"`

	// Customer notifications
	Notification *domain.OrderNotification `json:"notification,omitempty"`
	Phone        string                    `json:"phone,omitempty"`
	Status       domain.OrderStatus        `json:"status,omitempty"`

	Export *domain.ExportRequest `json:"export,omitempty"`
}

type ReceivedMessage struct {
	Message       Message
	ReceiptHandle *string
	// ReceiveCount is how many times SQS has handed this message out.
	ReceiveCount int
}

// Client is the subset of the SQS API the service uses.
type Client interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type SQSService struct {
	client               Client
	indexQueueURL        string
	notificationQueueURL string
	exportQueueURL       string
}

func NewSQSService(client Client, config *config.SQSConfig) *SQSService {
	return &SQSService{
		client:               client,
		indexQueueURL:        config.IndexQueueURL,
		notificationQueueURL: config.NotificationQueueURL,
		exportQueueURL:       config.ExportQueueURL,
	}
}

func (s *SQSService) SendProductIndexMessage(ctx context.Context, tenantID, productID string) error {
	return s.sendMessage(ctx, Message{
		Type:      MessageTypeIndexProduct,
		TenantID:  tenantID,
		ProductID: productID,
		Timestamp: time.Now(),
	}, s.indexQueueURL)
}

func (s *SQSService) SendProductDeleteMessage(ctx context.Context, tenantID, productID string) error {
	return s.sendMessage(ctx, Message{
		Type:      MessageTypeDeleteProduct,
		TenantID:  tenantID,
		ProductID: productID,
		Timestamp: time.Now(),
	}, s.indexQueueURL)
}

func (s *SQSService) SendReindexMessage(ctx context.Context, tenantID string) error {
	return s.sendMessage(ctx, Message{
		Type:      MessageTypeReindex,
		TenantID:  tenantID,
		Timestamp: time.Now(),
	}, s.indexQueueURL)
}

func (s *SQSService) SendOrderCreatedMessage(ctx context.Context, tenantID string, notification *domain.OrderNotification, phone string) error {
	return s.sendMessage(ctx, Message{
		Type:         MessageTypeOrderCreated,
		TenantID:     tenantID,
		Notification: notification,
		Phone:        phone,
		Timestamp:    time.Now(),
	}, s.notificationQueueURL)
}

func (s *SQSService) SendOrderStatusMessage(ctx context.Context, tenantID string, notification *domain.OrderNotification, phone string, status domain.OrderStatus) error {
	return s.sendMessage(ctx, Message{
		Type:         MessageTypeOrderStatus,
		TenantID:     tenantID,
		Notification: notification,
		Phone:        phone,
		Status:       status,
		Timestamp:    time.Now(),
	}, s.notificationQueueURL)
}

func (s *SQSService) SendExportMessage(ctx context.Context, req *domain.ExportRequest) error {
	return s.sendMessage(ctx, Message{
		Type:      MessageTypeExportOrders,
		TenantID:  req.TenantID,
		Export:    req,
		Timestamp: time.Now(),
	}, s.exportQueueURL)
}

func (s *SQSService) sendMessage(ctx context.Context, msg Message, queueURL string) error {
	msgBody, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	input := &sqs.SendMessageInput{
		MessageBody: aws.String(string(msgBody)),
		QueueUrl:    aws.String(queueURL),
	}

	_, err = s.client.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (s *SQSService) ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]ReceivedMessage, error) {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     waitTimeSeconds,
		// ApproximateReceiveCount lets consumers give up on poison messages.
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
		},
	}

	output, err := s.client.ReceiveMessage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}

	var messages []ReceivedMessage
	for _, msg := range output.Messages {
		var message Message
		if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		count, _ := strconv.Atoi(msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)])
		messages = append(messages, ReceivedMessage{
			Message:       message,
			ReceiptHandle: msg.ReceiptHandle,
			ReceiveCount:  count,
		})
	}

	return messages, nil
}

func (s *SQSService) DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error {
	input := &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: receiptHandle,
	}

	_, err := s.client.DeleteMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}
