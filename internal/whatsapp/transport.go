// Package whatsapp owns the notifier's WhatsApp session and renders the
// customer messages sent through it.
package whatsapp

import (
	"context"
)

// State is the lifecycle position of the session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateAwaitingScan  State = "awaiting_scan"
	StateAuthenticated State = "authenticated"
	StateReady         State = "ready"
	StateDisconnected  State = "disconnected"
	StateAuthFailed    State = "auth_failed"
)

// EventHandler receives the lifecycle events of a transport.
type EventHandler interface {
	OnQR(qr string)
	OnLoading(percent int, message string)
	OnAuthenticated()
	OnReady()
	OnAuthFailure(reason string)
	OnDisconnected(reason string)
}

// ClientInfo describes the linked WhatsApp account.
type ClientInfo struct {
	User     string `json:"user"`
	Platform string `json:"platform,omitempty"`
	Phone    string `json:"phone"`
	PushName string `json:"pushname,omitempty"`
}

// Transport drives a WhatsApp Web client. Implementations report lifecycle
// changes through the handler given to Initialize.
type Transport interface {
	Initialize(ctx context.Context, events EventHandler) error
	Destroy(ctx context.Context) error
	IsRegisteredUser(ctx context.Context, chatID string) (bool, error)
	// SendMessage returns the id of the sent message.
	SendMessage(ctx context.Context, chatID, text string) (string, error)
	Info(ctx context.Context) (*ClientInfo, error)
}
