package whatsapp

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

// SessionPolicy holds the retry timings of a session.
type SessionPolicy struct {
	AuthFailureRetryDelay time.Duration
	ReconnectDelay        time.Duration
	RestartDelay          time.Duration
	InitWarningAfter      time.Duration
	// MaxReconnectAttempts bounds reconnects between two ready events; 0 means no bound.
	MaxReconnectAttempts int
}

func PolicyFromConfig(cfg *config.WhatsAppConfig) SessionPolicy {
	return SessionPolicy{
		AuthFailureRetryDelay: cfg.AuthFailureRetryDelay,
		ReconnectDelay:        cfg.ReconnectDelay,
		RestartDelay:          cfg.RestartDelay,
		InitWarningAfter:      cfg.InitWarningAfter,
		MaxReconnectAttempts:  cfg.MaxReconnectAttempts,
	}
}

// Session is the single WhatsApp session of a notifier process. It implements
// EventHandler and re-initialises the transport on failures with one-shot timers.
type Session struct {
	transport Transport
	policy    SessionPolicy
	logger    *logger.Logger

	mu         sync.Mutex
	state      State
	qr         string
	reconnects int
	pending    *time.Timer
	warning    *time.Timer
	ctx        context.Context
	cancel     context.CancelFunc

	// initMu keeps at most one Initialize call in flight.
	initMu sync.Mutex
}

func NewSession(transport Transport, policy SessionPolicy, logger *logger.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		transport: transport,
		policy:    policy,
		logger:    logger.Named("whatsapp"),
		state:     StateUninitialized,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// QR returns the pending pairing code, only while a scan is awaited.
func (s *Session) QR() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAwaitingScan || s.qr == "" {
		return "", false
	}
	return s.qr, true
}

func (s *Session) IsReady() bool {
	return s.State() == StateReady
}

// Start initialises the transport and warns if the session is still not
// ready after the configured delay.
func (s *Session) Start() {
	s.logger.Info("Initializing WhatsApp client")

	s.mu.Lock()
	if s.policy.InitWarningAfter > 0 {
		s.warning = time.AfterFunc(s.policy.InitWarningAfter, func() {
			if !s.IsReady() {
				s.logger.Warn("WhatsApp initialization taking longer than expected", zap.String("state", string(s.State())))
			}
		})
	}
	s.mu.Unlock()

	s.initialize()
}

// Restart destroys the client and initialises it again after the restart delay.
func (s *Session) Restart(ctx context.Context) error {
	s.logger.Info("Restarting WhatsApp client")

	s.mu.Lock()
	s.stopPendingLocked()
	s.state = StateUninitialized
	s.qr = ""
	s.reconnects = 0
	s.mu.Unlock()

	if err := s.transport.Destroy(ctx); err != nil {
		s.logger.Error("Failed to destroy WhatsApp client", err)
		return err
	}

	s.mu.Lock()
	s.scheduleLocked(s.policy.RestartDelay)
	s.mu.Unlock()
	return nil
}

// Close stops pending timers and tears the transport down.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	s.cancel()
	s.stopPendingLocked()
	if s.warning != nil {
		s.warning.Stop()
	}
	s.state = StateUninitialized
	s.qr = ""
	s.mu.Unlock()

	return s.transport.Destroy(ctx)
}

func (s *Session) OnQR(qr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAwaitingScan
	s.qr = qr
	s.logger.Info("QR code generated, ready for scanning")
}

func (s *Session) OnLoading(percent int, message string) {
	s.logger.Info("WhatsApp loading", zap.Int("percent", percent), zap.String("message", message))
}

func (s *Session) OnAuthenticated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthenticated
	s.qr = ""
	s.logger.Info("WhatsApp authenticated")
}

func (s *Session) OnReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateReady
	s.qr = ""
	s.reconnects = 0
	s.logger.Info("WhatsApp client is ready")
}

func (s *Session) OnAuthFailure(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAuthFailed
	s.qr = ""
	s.logger.Warn("WhatsApp authentication failed", zap.String("reason", reason))
	s.scheduleLocked(s.policy.AuthFailureRetryDelay)
}

func (s *Session) OnDisconnected(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateDisconnected
	s.qr = ""
	s.logger.Warn("WhatsApp disconnected", zap.String("reason", reason))

	if s.policy.MaxReconnectAttempts > 0 && s.reconnects >= s.policy.MaxReconnectAttempts {
		s.logger.Warn("Giving up reconnecting, restart the session manually",
			zap.Int("attempts", s.reconnects))
		return
	}
	s.reconnects++
	s.scheduleLocked(s.policy.ReconnectDelay)
}

// scheduleLocked replaces any pending re-initialisation. Callers hold s.mu.
func (s *Session) scheduleLocked(delay time.Duration) {
	if s.ctx.Err() != nil {
		return
	}
	s.stopPendingLocked()
	s.pending = time.AfterFunc(delay, s.initialize)
}

func (s *Session) stopPendingLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Session) initialize() {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	if s.ctx.Err() != nil {
		return
	}
	if err := s.transport.Initialize(s.ctx, s); err != nil {
		s.logger.Error("Failed to initialize WhatsApp client", err)
		s.OnDisconnected("initialize failed")
	}
}
