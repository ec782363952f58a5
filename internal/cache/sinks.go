package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/raydium-token-price/internal/config"
	"github.com/aman-zulfiqar/raydium-token-price/internal/storage"
)

// NewSinks connects every quote sink that cfg configures. An empty result
// means recording is disabled. Already opened sinks are closed on error.
func NewSinks(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (storage.MultiSink, error) {
	var sinks storage.MultiSink

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		sinks = append(sinks, NewRedisCacheFromClient(client, logger))
	}

	if cfg.ClickHouseAddr != "" {
		store, err := NewClickHouseStore(ctx, ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		}, logger)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, store)
	}

	return sinks, nil
}
