package config

import (
	"time"
)

// WhatsAppConfig drives the notifier process: its HTTP surface, the gateway
// session it owns and the reconnect policy.
type WhatsAppConfig struct {
	AppEnv      string
	Port        int
	FrontendURL string

	GatewayURL    string
	GatewayAPIKey string
	SessionName   string
	PollInterval  time.Duration

	CountryCode       string
	LocalNumberLength int
	Currency          string
	TimeZone          string

	AuthFailureRetryDelay time.Duration
	ReconnectDelay        time.Duration
	RestartDelay          time.Duration
	InitWarningAfter      time.Duration
	MaxReconnectAttempts  int

	SendRatePerMinute int
	HTTPRatePerWindow int
	HTTPRateWindow    time.Duration

	QueueWorkers      int
	QueuePollInterval time.Duration
}

func DefaultWhatsAppConfig() *WhatsAppConfig {
	return &WhatsAppConfig{
		AppEnv:      getEnvWithDefault("APP_ENV", "development"),
		Port:        getEnvIntWithDefault("WORKER_PORT", 8000),
		FrontendURL: getEnvWithDefault("FRONTEND_URL", "http://localhost:3000"),

		GatewayURL:    getEnvWithDefault("WHATSAPP_GATEWAY_URL", "http://localhost:3001"),
		GatewayAPIKey: getEnvWithDefault("WHATSAPP_GATEWAY_API_KEY", ""),
		SessionName:   getEnvWithDefault("WHATSAPP_SESSION_NAME", "restaurant-worker"),
		PollInterval:  getEnvDurationWithDefault("WHATSAPP_POLL_INTERVAL", 2*time.Second),

		CountryCode:       getEnvWithDefault("WHATSAPP_COUNTRY_CODE", "971"),
		LocalNumberLength: getEnvIntWithDefault("WHATSAPP_LOCAL_NUMBER_LENGTH", 9),
		Currency:          getEnvWithDefault("CURRENCY", "AED"),
		TimeZone:          getEnvWithDefault("WHATSAPP_TIME_ZONE", "Asia/Dubai"),

		AuthFailureRetryDelay: getEnvDurationWithDefault("WHATSAPP_AUTH_FAILURE_RETRY_DELAY", 5*time.Second),
		ReconnectDelay:        getEnvDurationWithDefault("WHATSAPP_RECONNECT_DELAY", 3*time.Second),
		RestartDelay:          getEnvDurationWithDefault("WHATSAPP_RESTART_DELAY", 2*time.Second),
		InitWarningAfter:      getEnvDurationWithDefault("WHATSAPP_INIT_WARNING_AFTER", 30*time.Second),
		MaxReconnectAttempts:  getEnvIntWithDefault("WHATSAPP_MAX_RECONNECT_ATTEMPTS", 20),

		SendRatePerMinute: getEnvIntWithDefault("WHATSAPP_SEND_RATE_PER_MINUTE", 30),
		HTTPRatePerWindow: getEnvIntWithDefault("WORKER_RATE_LIMIT", 100),
		HTTPRateWindow:    getEnvDurationWithDefault("WORKER_RATE_WINDOW", 15*time.Minute),

		QueueWorkers:      getEnvIntWithDefault("NOTIFICATION_WORKERS", 2),
		QueuePollInterval: getEnvDurationWithDefault("NOTIFICATION_POLL_INTERVAL", 5*time.Second),
	}
}

func (c *WhatsAppConfig) IsProduction() bool {
	return c.AppEnv == "production"
}
