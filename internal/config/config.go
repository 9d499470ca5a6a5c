package config

import (
	"strings"
	"time"
)

type Config struct {
	AppEnv             string        `json:"app_env"`
	ServerPort         int           `json:"server_port"`
	JWTSecretKey       string        `json:"jwt_secret_key"`
	JWTExpirationHours int           `json:"jwt_expiration_hours"`
	DefaultRateLimit   int           `json:"default_rate_limit"`
	PremiumRateLimit   int           `json:"premium_rate_limit"`
	GlobalRateLimit    int           `json:"global_rate_limit"`
	FrontendURL        string        `json:"frontend_url"`
	MainDomainAliases  []string      `json:"main_domain_aliases"`
	TrustEdgeHeaders   bool          `json:"trust_edge_headers"`
	TenantCacheTTL     time.Duration `json:"tenant_cache_ttl"`
	AutoMigrate        bool          `json:"auto_migrate"`
	Currency           string        `json:"currency"`
	TaxRate            float64       `json:"tax_rate"`
	DeliveryFee        float64       `json:"delivery_fee"`
}

func Load() (*Config, error) {
	return &Config{
		AppEnv:             getEnvWithDefault("APP_ENV", "development"),
		ServerPort:         getEnvIntWithDefault("SERVER_PORT", 3000),
		JWTSecretKey:       getEnvWithDefault("JWT_SECRET_KEY", ""),
		JWTExpirationHours: getEnvIntWithDefault("JWT_EXPIRATION_HOURS", 24),
		DefaultRateLimit:   getEnvIntWithDefault("DEFAULT_RATE_LIMIT", 1000), // per tenant per minute, basic plan
		PremiumRateLimit:   getEnvIntWithDefault("PREMIUM_RATE_LIMIT", 5000),
		GlobalRateLimit:    getEnvIntWithDefault("GLOBAL_RATE_LIMIT", 10000), // per IP per minute
		FrontendURL:        getEnvWithDefault("FRONTEND_URL", "http://localhost:3000"),
		MainDomainAliases:  splitList(getEnvWithDefault("MAIN_DOMAIN_ALIASES", "www,admin,app")),
		TrustEdgeHeaders:   getEnvBoolWithDefault("TRUST_EDGE_HEADERS", false),
		TenantCacheTTL:     getEnvDurationWithDefault("TENANT_CACHE_TTL", 5*time.Minute),
		AutoMigrate:        getEnvBoolWithDefault("DB_AUTO_MIGRATE", true),
		Currency:           getEnvWithDefault("CURRENCY", "AED"),
		TaxRate:            getEnvFloatWithDefault("TAX_RATE", 0.05),
		DeliveryFee:        getEnvFloatWithDefault("DELIVERY_FEE", 10),
	}, nil
}

// IsProduction hides internal error messages from API clients when true.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
