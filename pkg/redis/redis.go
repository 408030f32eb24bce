package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/viptalca/viptalca-backend/config"
	"github.com/viptalca/viptalca-backend/pkg/logger"
)

const blacklistPrefix = "token:blacklist:"

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection. The package-level client is only assigned once the
	// ping succeeds so the no-op guards below stay in effect when Redis is
	// unreachable.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		_ = rdb.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	client = rdb

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// BlacklistToken marks an access token as revoked until it would have
// expired anyway. Used on logout.
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, blacklistPrefix+token, "1", expiry).Err()
}

// IsTokenBlacklisted reports whether the token was revoked. Without a Redis
// connection (tests, degraded mode) every token passes.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if client == nil {
		return false
	}
	exists, err := client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false
	}
	return exists > 0
}
