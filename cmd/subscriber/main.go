package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/raydium-token-price/internal/cache"
	"github.com/aman-zulfiqar/raydium-token-price/internal/config"
	"github.com/aman-zulfiqar/raydium-token-price/internal/constants"
	"github.com/aman-zulfiqar/raydium-token-price/internal/models"
)

// subscriber prints every quote published on the live price channel
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file in working directory")
	}
	cfg := config.Load()

	addr := flag.String("redis", cfg.RedisAddr, "Redis address")
	channel := flag.String("channel", constants.PubSubChannelPrices, "channel to subscribe to")
	flag.Parse()

	if *addr == "" {
		logger.Fatal("REDIS_ADDR or -redis is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := redis.NewClient(&redis.Options{Addr: *addr, DB: 0})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}

	pubsub := cache.NewPubSubManagerFromClient(client, logger)
	err := pubsub.Subscribe(ctx, *channel, func(q *models.PriceQuote) {
		logger.WithFields(logrus.Fields{
			"token": q.Token,
			"pool":  q.Pool,
			"price": q.Display,
		}).Info("quote")
	})
	if err != nil {
		logger.WithError(err).Fatal("subscription failed")
	}
	logger.Info("subscriber stopped")
}
