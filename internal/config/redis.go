package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:        getEnvOrDefault("REDIS_HOST", "localhost"),
		Port:        getEnvOrDefault("REDIS_PORT", "6379"),
		Password:    getEnvOrDefault("REDIS_PASSWORD", ""),
		DB:          getEnvIntWithDefault("REDIS_DB", 0),
		PoolSize:    getEnvIntWithDefault("REDIS_POOL_SIZE", 20),
		DialTimeout: getEnvDurationWithDefault("REDIS_DIAL_TIMEOUT", 5*time.Second),
	}
}

// GetClient connects and pings so callers fail at start-up rather than on first request.
func (c *RedisConfig) GetClient(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", c.Host, c.Port),
		Password:    c.Password,
		DB:          c.DB,
		PoolSize:    c.PoolSize,
		DialTimeout: c.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
