package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

type HandlerTestSuite struct {
	suite.Suite
	transport *fakeTransport
	session   *Session
	router    *gin.Engine
}

func TestHandler(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.transport = newFakeTransport()
	s.session = readySession(s.transport)
	tpl, err := NewTemplates("AED", "Asia/Dubai")
	s.Require().NoError(err)
	notifier := NewNotifier(s.session, s.transport, tpl, uaePhones(), 0, logger.NewNopLogger())

	s.router = gin.New()
	NewHandler(notifier, s.session, logger.NewNopLogger()).Register(s.router)
}

func (s *HandlerTestSuite) TearDownTest() {
	_ = s.session.Close(context.Background())
}

func (s *HandlerTestSuite) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func (s *HandlerTestSuite) TestHealthz() {
	w, body := s.do(http.MethodGet, "/healthz", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal("ok", body["status"])
	s.Equal("ready", body["whatsapp"])
}

func (s *HandlerTestSuite) TestStatus() {
	w, body := s.do(http.MethodGet, "/whatsapp/status", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, body["ready"])
	s.Nil(body["qr"])
}

func (s *HandlerTestSuite) TestQR() {
	_, body := s.do(http.MethodGet, "/whatsapp/qr", nil)
	s.Nil(body["qr"])
	s.Equal("Already authenticated", body["message"])

	s.session.OnQR("2@pairing")
	_, body = s.do(http.MethodGet, "/whatsapp/qr", nil)
	s.Equal("2@pairing", body["qr"])
	s.Equal(false, body["ready"])
}

func (s *HandlerTestSuite) TestSend() {
	w, body := s.do(http.MethodPost, "/whatsapp/send", SendRequest{Phone: "0501234567", Message: "Hello"})

	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, body["success"])
	s.Equal("0501234567", body["phone"])
	s.NotEmpty(body["message_id"])
}

func (s *HandlerTestSuite) TestSend_MissingFields() {
	w, _ := s.do(http.MethodPost, "/whatsapp/send", map[string]string{"phone": "0501234567"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Empty(s.transport.messages())
}

func (s *HandlerTestSuite) TestSend_NotReady() {
	s.session.OnQR("2@pairing")

	w, _ := s.do(http.MethodPost, "/whatsapp/send", SendRequest{Phone: "0501234567", Message: "Hello"})

	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Empty(s.transport.messages())
}

func (s *HandlerTestSuite) TestSend_UnregisteredIsBadRequest() {
	s.transport.registered = false

	w, body := s.do(http.MethodPost, "/whatsapp/send", SendRequest{Phone: "0501234567", Message: "Hello"})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(false, body["success"])
}

func (s *HandlerTestSuite) TestOrderNotification() {
	w, body := s.do(http.MethodPost, "/whatsapp/order-notification", OrderNotificationRequest{
		Order: sampleNotification(domain.OrderTypeDelivery),
		Phone: "0501234567",
	})

	s.Equal(http.StatusOK, w.Code)
	s.Equal("order_notification", body["type"])
}

func (s *HandlerTestSuite) TestStatusUpdate_InvalidStatus() {
	w, body := s.do(http.MethodPost, "/whatsapp/status-update", StatusUpdateRequest{
		Order:  sampleNotification(domain.OrderTypePickup),
		Phone:  "0501234567",
		Status: domain.OrderCancelled,
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Len(body["valid_statuses"], 5)
}

func (s *HandlerTestSuite) TestStatusUpdate() {
	w, body := s.do(http.MethodPost, "/whatsapp/status-update", StatusUpdateRequest{
		Order:  sampleNotification(domain.OrderTypePickup),
		Phone:  "0501234567",
		Status: domain.OrderReady,
	})

	s.Equal(http.StatusOK, w.Code)
	s.Equal("ready", body["status"])
}

func (s *HandlerTestSuite) TestRestart() {
	w, body := s.do(http.MethodPost, "/whatsapp/restart", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, body["success"])
	s.Eventually(s.session.IsReady, eventually, 5*time.Millisecond)
}
