package cache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/raydium-token-price/internal/models"
	"github.com/aman-zulfiqar/raydium-token-price/internal/storage"
)

type PubSubManager struct {
	client redis.UniversalClient
	logger *logrus.Logger
}

func NewPubSubManagerFromClient(client redis.UniversalClient, logger *logrus.Logger) *PubSubManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &PubSubManager{client: client, logger: logger}
}

// Subscribe delivers quotes published on channel to handler until ctx is done.
// Undecodable payloads are logged and skipped.
func (p *PubSubManager) Subscribe(ctx context.Context, channel string, handler storage.QuoteHandler) error {
	pubsub := p.client.Subscribe(ctx, channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before reading messages
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}
	p.logger.WithField("channel", channel).Info("subscribed")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var quote models.PriceQuote
			if err := json.Unmarshal([]byte(msg.Payload), &quote); err != nil {
				p.logger.WithError(err).WithField("channel", msg.Channel).Warn("dropping undecodable quote")
				continue
			}
			handler(&quote)
		}
	}
}
