package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ConnectRedis creates a client and pings it, retrying up to attempts times.
func ConnectRedis(ctx context.Context, cfg RedisConfig, attempts int, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = client.Ping(ctx).Err(); err == nil {
			logger.Info("Connected to Redis", zap.String("addr", cfg.Addr))
			return client, nil
		}
		logger.Warn("Redis ping failed, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				client.Close()
				return nil, ctx.Err()
			case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
			}
		}
	}

	client.Close()
	return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
}
