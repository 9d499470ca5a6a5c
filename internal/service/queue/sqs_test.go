package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/domain"
)

type fakeClient struct {
	sent     []*sqs.SendMessageInput
	deleted  []*sqs.DeleteMessageInput
	messages []types.Message
	err      error
}

func (f *fakeClient) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, in)
	return &sqs.SendMessageOutput{}, nil
}

func (f *fakeClient) ReceiveMessage(_ context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	return &sqs.ReceiveMessageOutput{Messages: f.messages}, nil
}

func (f *fakeClient) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, in)
	return &sqs.DeleteMessageOutput{}, nil
}

func newTestService(client *fakeClient) *SQSService {
	return NewSQSService(client, &config.SQSConfig{
		IndexQueueURL:        "index",
		NotificationQueueURL: "notify",
		ExportQueueURL:       "export",
	})
}

func decodeSent(t *testing.T, in *sqs.SendMessageInput) Message {
	t.Helper()
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &msg))
	return msg
}

func TestSQSService_RoutesMessagesToQueues(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client)
	ctx := context.Background()

	require.NoError(t, svc.SendProductIndexMessage(ctx, "t1", "p1"))
	require.NoError(t, svc.SendOrderStatusMessage(ctx, "t1", &domain.OrderNotification{OrderNumber: "ORD-1"}, "0501234567", domain.OrderReady))
	require.NoError(t, svc.SendExportMessage(ctx, &domain.ExportRequest{ID: "e1", TenantID: "t1"}))

	require.Len(t, client.sent, 3)
	assert.Equal(t, "index", aws.ToString(client.sent[0].QueueUrl))
	assert.Equal(t, "notify", aws.ToString(client.sent[1].QueueUrl))
	assert.Equal(t, "export", aws.ToString(client.sent[2].QueueUrl))

	status := decodeSent(t, client.sent[1])
	assert.Equal(t, MessageTypeOrderStatus, status.Type)
	assert.Equal(t, domain.OrderReady, status.Status)
	assert.Equal(t, "ORD-1", status.Notification.OrderNumber)
	assert.Equal(t, "0501234567", status.Phone)

	export := decodeSent(t, client.sent[2])
	assert.Equal(t, "e1", export.Export.ID)
}

func TestSQSService_SendErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestService(&fakeClient{err: boom})

	err := svc.SendProductDeleteMessage(context.Background(), "t1", "p1")
	assert.ErrorIs(t, err, boom)
}

func TestSQSService_ReceiveDecodesAndCounts(t *testing.T) {
	body, err := json.Marshal(Message{Type: MessageTypeReindex, TenantID: "t1"})
	require.NoError(t, err)

	client := &fakeClient{messages: []types.Message{{
		Body:          aws.String(string(body)),
		ReceiptHandle: aws.String("rh-1"),
		Attributes:    map[string]string{"ApproximateReceiveCount": "3"},
	}}}
	svc := newTestService(client)

	msgs, err := svc.ReceiveMessages(context.Background(), "index", 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, MessageTypeReindex, msgs[0].Message.Type)
	assert.Equal(t, 3, msgs[0].ReceiveCount)

	require.NoError(t, svc.DeleteMessage(context.Background(), "index", msgs[0].ReceiptHandle))
	assert.Equal(t, "rh-1", aws.ToString(client.deleted[0].ReceiptHandle))
}
