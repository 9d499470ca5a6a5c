package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type NotifierTestSuite struct {
	suite.Suite
	transport *fakeTransport
	session   *Session
	notifier  *Notifier
}

func TestNotifier(t *testing.T) {
	suite.Run(t, new(NotifierTestSuite))
}

func (s *NotifierTestSuite) SetupTest() {
	s.transport = newFakeTransport()
	s.session = readySession(s.transport)
	tpl, err := NewTemplates("AED", "Asia/Dubai")
	s.Require().NoError(err)
	s.notifier = NewNotifier(s.session, s.transport, tpl, uaePhones(), 0, logger.NewNopLogger())
}

func (s *NotifierTestSuite) TearDownTest() {
	_ = s.session.Close(context.Background())
}

func (s *NotifierTestSuite) TestSendMessage_NormalisesNumber() {
	result := s.notifier.SendMessage(context.Background(), "050 123 4567", "Hello")

	s.True(result.Success)
	s.Equal("971501234567", result.To)
	s.NotEmpty(result.MessageID)
	s.Equal([]sentMessage{{chatID: "971501234567@c.us", text: "Hello"}}, s.transport.messages())
}

func (s *NotifierTestSuite) TestSendMessage_NotReadyNeverTouchesTransport() {
	s.session.OnQR("2@qr")
	s.Require().False(s.session.IsReady())

	result := s.notifier.SendMessage(context.Background(), "0501234567", "Hello")

	s.False(result.Success)
	s.Equal("WhatsApp client not ready", result.Error)
	s.ErrorIs(result.Err(), ErrNotReady)
	s.Empty(s.transport.messages())
	s.Empty(s.transport.checked)
}

func (s *NotifierTestSuite) TestSendMessage_UnregisteredNumber() {
	s.transport.registered = false

	result := s.notifier.SendMessage(context.Background(), "0501234567", "Hello")

	s.False(result.Success)
	s.Contains(result.Error, "is not registered on WhatsApp")
	s.ErrorIs(result.Err(), ErrNotRegistered)
	s.Empty(s.transport.messages())
}

func (s *NotifierTestSuite) TestSendMessage_TransportFailure() {
	s.transport.sendErr = errors.New("gateway returned 500")

	result := s.notifier.SendMessage(context.Background(), "0501234567", "Hello")

	s.False(result.Success)
	s.Equal("gateway returned 500", result.Error)
}

func (s *NotifierTestSuite) TestSendOrderNotification() {
	result := s.notifier.SendOrderNotification(context.Background(), sampleNotification(domain.OrderTypeDelivery), "+971501234567")

	s.Require().True(result.Success)
	sent := s.transport.messages()
	s.Require().Len(sent, 1)
	s.Contains(sent[0].text, "ORD-20250714-4821")
}

func (s *NotifierTestSuite) TestSendStatusUpdate_RejectsSilentStatus() {
	result := s.notifier.SendStatusUpdate(context.Background(), sampleNotification(domain.OrderTypePickup), "0501234567", domain.OrderCancelled)

	s.False(result.Success)
	s.ErrorIs(result.Err(), ErrInvalidStatus)
	s.Empty(s.transport.messages())
}

func (s *NotifierTestSuite) TestSendStatusUpdate() {
	result := s.notifier.SendStatusUpdate(context.Background(), sampleNotification(domain.OrderTypePickup), "0501234567", domain.OrderReady)

	s.Require().True(result.Success)
	s.Contains(s.transport.messages()[0].text, "Restaurant address")
}

func (s *NotifierTestSuite) TestClientInfo() {
	status := s.notifier.ClientInfo(context.Background())
	s.True(status.Ready)
	s.Equal(StateReady, status.State)
	s.Require().NotNil(status.Client)
	s.Equal("Beirut Bites", status.Client.PushName)

	s.session.OnQR("2@qr")
	status = s.notifier.ClientInfo(context.Background())
	s.False(status.Ready)
	s.True(status.QRAvailable)
	s.Nil(status.Client)
}

func (s *NotifierTestSuite) TestThrottleHonoursContext() {
	tpl, _ := NewTemplates("AED", "Asia/Dubai")
	throttled := NewNotifier(s.session, s.transport, tpl, uaePhones(), 1, logger.NewNopLogger())

	s.True(throttled.SendMessage(context.Background(), "0501234567", "first").Success)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := throttled.SendMessage(ctx, "0501234567", "second")
	s.False(result.Success)
	s.Len(s.transport.messages(), 1)
}
