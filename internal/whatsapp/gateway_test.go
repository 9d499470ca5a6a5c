package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

// fakeGateway serves the subset of the gateway API the transport calls.
type fakeGateway struct {
	mu      sync.Mutex
	status  string
	qr      string
	exists  bool
	apiKeys []string
	sent    []map[string]string
}

func (g *fakeGateway) setStatus(status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = status
}

func (g *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	track := func(r *http.Request) {
		g.mu.Lock()
		g.apiKeys = append(g.apiKeys, r.Header.Get("X-Api-Key"))
		g.mu.Unlock()
	}

	mux.HandleFunc("POST /api/sessions/start", func(w http.ResponseWriter, r *http.Request) {
		track(r)
		g.setStatus(gatewayScanQR)
		write(w, map[string]string{"name": "test", "status": gatewayStarting})
	})
	mux.HandleFunc("POST /api/sessions/stop", func(w http.ResponseWriter, r *http.Request) {
		track(r)
		g.setStatus(gatewayStopped)
		write(w, map[string]string{"name": "test", "status": gatewayStopped})
	})
	mux.HandleFunc("GET /api/sessions/test", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		body := map[string]any{"name": "test", "status": g.status}
		if g.status == gatewayWorking {
			body["me"] = map[string]string{"id": "971500000000@c.us", "pushName": "Beirut Bites"}
			body["engine"] = map[string]string{"engine": "WEBJS"}
		}
		write(w, body)
	})
	mux.HandleFunc("GET /api/test/auth/qr", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		write(w, map[string]string{"value": g.qr})
	})
	mux.HandleFunc("GET /api/contacts/check-exists", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		write(w, map[string]any{"numberExists": g.exists, "chatId": r.URL.Query().Get("phone")})
	})
	mux.HandleFunc("POST /api/sendText", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		g.mu.Lock()
		g.sent = append(g.sent, body)
		g.mu.Unlock()
		write(w, map[string]any{"id": map[string]any{"_serialized": "true_971501234567@c.us_ABC"}})
	})
	return mux
}

// recordingHandler captures events in order.
type recordingHandler struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingHandler) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingHandler) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recordingHandler) OnQR(qr string) { r.add("qr:" + qr) }
func (r *recordingHandler) OnLoading(int, string) { r.add("loading") }
func (r *recordingHandler) OnAuthenticated() { r.add("authenticated") }
func (r *recordingHandler) OnReady() { r.add("ready") }
func (r *recordingHandler) OnAuthFailure(string) { r.add("auth_failure") }
func (r *recordingHandler) OnDisconnected(string) { r.add("disconnected") }

func newGatewayTransport(t *testing.T, gw *fakeGateway) *GatewayTransport {
	t.Helper()
	srv := httptest.NewServer(gw.handler())
	t.Cleanup(srv.Close)
	return NewGatewayTransport(&config.WhatsAppConfig{
		GatewayURL:    srv.URL,
		GatewayAPIKey: "secret-key",
		SessionName:   "test",
		PollInterval:  5 * time.Millisecond,
	}, logger.NewNopLogger())
}

func TestGatewayTransport_EmitsLifecycle(t *testing.T) {
	gw := &fakeGateway{qr: "2@first"}
	transport := newGatewayTransport(t, gw)
	events := &recordingHandler{}

	require.NoError(t, transport.Initialize(context.Background(), events))
	assert.Eventually(t, func() bool {
		return len(events.list()) >= 1
	}, time.Second, 5*time.Millisecond)

	gw.setStatus(gatewayWorking)
	assert.Eventually(t, func() bool {
		l := events.list()
		return len(l) >= 3 && l[len(l)-1] == "ready"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"qr:2@first", "authenticated", "ready"}, events.list())

	gw.setStatus(gatewayFailed)
	assert.Eventually(t, func() bool {
		l := events.list()
		return l[len(l)-1] == "disconnected"
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, transport.Destroy(context.Background()))
	assert.Contains(t, gw.apiKeys, "secret-key")
}

func TestGatewayTransport_FailureBeforePairingIsAuthFailure(t *testing.T) {
	gw := &fakeGateway{qr: "2@first"}
	transport := newGatewayTransport(t, gw)
	events := &recordingHandler{}

	require.NoError(t, transport.Initialize(context.Background(), events))
	gw.setStatus(gatewayFailed)

	assert.Eventually(t, func() bool {
		l := events.list()
		return len(l) > 0 && l[len(l)-1] == "auth_failure"
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, transport.Destroy(context.Background()))
}

func TestGatewayTransport_Messaging(t *testing.T) {
	gw := &fakeGateway{status: gatewayWorking, exists: true}
	transport := newGatewayTransport(t, gw)
	ctx := context.Background()

	ok, err := transport.IsRegisteredUser(ctx, "971501234567@c.us")
	require.NoError(t, err)
	assert.True(t, ok)

	id, err := transport.SendMessage(ctx, "971501234567@c.us", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "true_971501234567@c.us_ABC", id)
	assert.Equal(t, "Hello", gw.sent[0]["text"])
	assert.Equal(t, "test", gw.sent[0]["session"])

	info, err := transport.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "971500000000", info.User)
	assert.Equal(t, "WEBJS", info.Platform)
}
