package whatsapp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

// Session statuses reported by the gateway.
const (
	gatewayStarting = "STARTING"
	gatewayScanQR   = "SCAN_QR_CODE"
	gatewayWorking  = "WORKING"
	gatewayFailed   = "FAILED"
	gatewayStopped  = "STOPPED"
)

// failures in a row before a working session counts as disconnected
const maxPollFailures = 3

type gatewaySession struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Me     *struct {
		ID       string `json:"id"`
		PushName string `json:"pushName"`
	} `json:"me,omitempty"`
	Engine *struct {
		Engine string `json:"engine"`
	} `json:"engine,omitempty"`
}

type gatewayQR struct {
	Value string `json:"value"`
}

type gatewayCheck struct {
	NumberExists bool   `json:"numberExists"`
	ChatID       string `json:"chatId"`
}

type gatewayMessage struct {
	ID any `json:"id"`
}

type gatewayError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// GatewayTransport talks to a headless-browser WhatsApp HTTP gateway and
// turns its session status into lifecycle events by polling.
type GatewayTransport struct {
	client       *resty.Client
	session      string
	pollInterval time.Duration
	logger       *logger.Logger

	mu       sync.Mutex
	stopPoll context.CancelFunc
	pollDone chan struct{}
}

func NewGatewayTransport(cfg *config.WhatsAppConfig, logger *logger.Logger) *GatewayTransport {
	client := resty.New().
		SetBaseURL(cfg.GatewayURL).
		SetTimeout(30*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.GatewayAPIKey != "" {
		client.SetHeader("X-Api-Key", cfg.GatewayAPIKey)
	}

	return &GatewayTransport{
		client:       client,
		session:      cfg.SessionName,
		pollInterval: cfg.PollInterval,
		logger:       logger.Named("gateway"),
	}
}

// Initialize starts the gateway session and begins polling its status.
func (t *GatewayTransport) Initialize(ctx context.Context, events EventHandler) error {
	t.stopPolling()

	if err := t.post(ctx, "/api/sessions/start", map[string]string{"name": t.session}, nil); err != nil {
		return fmt.Errorf("failed to start gateway session: %w", err)
	}

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.mu.Lock()
	t.stopPoll = cancel
	t.pollDone = done
	t.mu.Unlock()

	go t.poll(pollCtx, events, done)
	return nil
}

func (t *GatewayTransport) Destroy(ctx context.Context) error {
	t.stopPolling()
	if err := t.post(ctx, "/api/sessions/stop", map[string]string{"name": t.session}, nil); err != nil {
		return fmt.Errorf("failed to stop gateway session: %w", err)
	}
	return nil
}

func (t *GatewayTransport) IsRegisteredUser(ctx context.Context, chatID string) (bool, error) {
	var check gatewayCheck
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"phone": chatID, "session": t.session}).
		SetResult(&check).
		SetError(&gatewayError{}).
		Get("/api/contacts/check-exists")
	if err := checkResponse(resp, err); err != nil {
		return false, fmt.Errorf("failed to check number: %w", err)
	}
	return check.NumberExists, nil
}

func (t *GatewayTransport) SendMessage(ctx context.Context, chatID, text string) (string, error) {
	var sent gatewayMessage
	body := map[string]string{"session": t.session, "chatId": chatID, "text": text}
	if err := t.post(ctx, "/api/sendText", body, &sent); err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return messageID(sent.ID), nil
}

func (t *GatewayTransport) Info(ctx context.Context) (*ClientInfo, error) {
	status, err := t.status(ctx)
	if err != nil {
		return nil, err
	}
	if status.Me == nil {
		return nil, fmt.Errorf("gateway session %s has no linked account", t.session)
	}

	info := &ClientInfo{
		User:     userOf(status.Me.ID),
		Phone:    status.Me.ID,
		PushName: status.Me.PushName,
	}
	if status.Engine != nil {
		info.Platform = status.Engine.Engine
	}
	return info, nil
}

func (t *GatewayTransport) poll(ctx context.Context, events EventHandler, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	var last, lastQR string
	failures := 0

	for {
		status, err := t.status(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			failures++
			t.logger.Warn("Gateway status poll failed", zap.Error(err), zap.Int("failures", failures))
			if last == gatewayWorking && failures >= maxPollFailures {
				events.OnDisconnected("gateway unreachable")
				return
			}
		default:
			failures = 0
			if !t.dispatch(ctx, events, last, status.Status, &lastQR) {
				return
			}
			last = status.Status
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// dispatch emits the events for a status change and reports whether polling
// should continue.
func (t *GatewayTransport) dispatch(ctx context.Context, events EventHandler, previous, current string, lastQR *string) bool {
	switch current {
	case gatewayStarting:
		if previous != current {
			events.OnLoading(0, "session starting")
		}
	case gatewayScanQR:
		qr, err := t.qr(ctx)
		if err != nil {
			t.logger.Warn("Failed to fetch QR code", zap.Error(err))
			return true
		}
		if qr != *lastQR {
			*lastQR = qr
			events.OnQR(qr)
		}
	case gatewayWorking:
		if previous != current {
			events.OnAuthenticated()
			events.OnReady()
		}
	case gatewayFailed:
		if previous == gatewayWorking {
			events.OnDisconnected("session failed")
		} else {
			events.OnAuthFailure("session failed before pairing")
		}
		return false
	case gatewayStopped:
		if previous != "" {
			events.OnDisconnected("session stopped")
			return false
		}
	}
	return true
}

func (t *GatewayTransport) status(ctx context.Context) (*gatewaySession, error) {
	var session gatewaySession
	resp, err := t.client.R().
		SetContext(ctx).
		SetResult(&session).
		SetError(&gatewayError{}).
		Get("/api/sessions/" + t.session)
	if err := checkResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to read gateway session: %w", err)
	}
	return &session, nil
}

func (t *GatewayTransport) qr(ctx context.Context) (string, error) {
	var qr gatewayQR
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParam("format", "raw").
		SetResult(&qr).
		SetError(&gatewayError{}).
		Get("/api/" + t.session + "/auth/qr")
	if err := checkResponse(resp, err); err != nil {
		return "", err
	}
	return qr.Value, nil
}

func (t *GatewayTransport) post(ctx context.Context, path string, body, result any) error {
	req := t.client.R().SetContext(ctx).SetBody(body).SetError(&gatewayError{})
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Post(path)
	return checkResponse(resp, err)
}

func (t *GatewayTransport) stopPolling() {
	t.mu.Lock()
	cancel, done := t.stopPoll, t.pollDone
	t.stopPoll, t.pollDone = nil, nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		if e, ok := resp.Error().(*gatewayError); ok && (e.Message != "" || e.Error != "") {
			msg := e.Message
			if msg == "" {
				msg = e.Error
			}
			return fmt.Errorf("gateway returned %d: %s", resp.StatusCode(), msg)
		}
		return fmt.Errorf("gateway returned %d", resp.StatusCode())
	}
	return nil
}

// messageID reads either a plain id or the serialized form of a message key.
func messageID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["_serialized"].(string); ok {
			return s
		}
	}
	return ""
}

func userOf(wid string) string {
	for i := 0; i < len(wid); i++ {
		if wid[i] == '@' {
			return wid[:i]
		}
	}
	return wid
}
