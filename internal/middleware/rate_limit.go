package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kingrain94/restaurant-saas/internal/config"
	"github.com/kingrain94/restaurant-saas/internal/domain"
	"github.com/kingrain94/restaurant-saas/internal/utils"
	"github.com/kingrain94/restaurant-saas/pkg/logger"
)

const rateLimitWindow = time.Minute

// RateLimitMiddleware keeps fixed one-minute windows in Redis so the limits
// hold across API instances.
type RateLimitMiddleware struct {
	redis  *redis.Client
	config *config.Config
	logger *logger.Logger
}

func NewRateLimitMiddleware(redis *redis.Client, config *config.Config, logger *logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redis:  redis,
		config: config,
		logger: logger,
	}
}

// TenantRateLimit implements per-tenant rate limiting, sized by plan
func (m *RateLimitMiddleware) TenantRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetString(string(utils.TenantIDKey))
		if tenantID == "" {
			c.Next()
			return
		}

		limit := m.getTenantRateLimit(domain.SubscriptionPlan(c.GetString(string(utils.PlanKey))))
		m.enforce(c, fmt.Sprintf("rate_limit:tenant:%s", tenantID), limit, "Rate limit exceeded")
	}
}

// GlobalRateLimit implements global rate limiting based on IP
func (m *RateLimitMiddleware) GlobalRateLimit(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.enforce(c, fmt.Sprintf("rate_limit:global:%s", c.ClientIP()), limit, "Global rate limit exceeded")
	}
}

func (m *RateLimitMiddleware) enforce(c *gin.Context, key string, limit int, message string) {
	ctx := c.Request.Context()
	reset := strconv.FormatInt(time.Now().Add(rateLimitWindow).Unix(), 10)

	current, err := m.redis.Get(ctx, key).Int()
	if err != nil && err != redis.Nil {
		m.logger.Error("Redis error in rate limiting", err)
		// Fail open
		c.Next()
		return
	}

	if current >= limit {
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("X-RateLimit-Reset", reset)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   message,
			"limit":   limit,
		})
		return
	}

	if err := m.increment(ctx, key); err != nil {
		m.logger.Error("Redis increment error in rate limiting", err)
	}

	remaining := limit - (current + 1)
	if remaining < 0 {
		remaining = 0
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Header("X-RateLimit-Reset", reset)

	c.Next()
}

// increment starts the window on the first hit only, so the window is fixed.
func (m *RateLimitMiddleware) increment(ctx context.Context, key string) error {
	count, err := m.redis.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return m.redis.Expire(ctx, key, rateLimitWindow).Err()
	}
	return nil
}

func (m *RateLimitMiddleware) getTenantRateLimit(plan domain.SubscriptionPlan) int {
	if plan == domain.PlanPremium && m.config.PremiumRateLimit > 0 {
		return m.config.PremiumRateLimit
	}
	if m.config.DefaultRateLimit > 0 {
		return m.config.DefaultRateLimit
	}
	return 1000
}
