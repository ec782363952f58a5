package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/raydium-token-price/internal/constants"
	"github.com/aman-zulfiqar/raydium-token-price/internal/models"
	"github.com/aman-zulfiqar/raydium-token-price/internal/storage"
)

// RedisCache keeps the latest quote per token and publishes every quote on
// the live channel. It is a sink only; price lookups never read it.
type RedisCache struct {
	client redis.UniversalClient
	logger *logrus.Logger
}

var _ storage.QuoteSink = (*RedisCache)(nil)

func NewRedisCacheFromClient(client redis.UniversalClient, logger *logrus.Logger) *RedisCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisCache{client: client, logger: logger}
}

func PriceKey(token string) string {
	return constants.RedisKeyPricePrefix + token
}

func (r *RedisCache) RecordQuote(ctx context.Context, quote *models.PriceQuote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, PriceKey(quote.Token), data, 0)
	pipe.Publish(ctx, constants.PubSubChannelPrices, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record quote in redis: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"token": quote.Token,
		"price": quote.Price,
	}).Debug("published quote")
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
