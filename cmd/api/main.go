package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/raydium-token-price/internal/cache"
	"github.com/aman-zulfiqar/raydium-token-price/internal/config"
	"github.com/aman-zulfiqar/raydium-token-price/internal/directory"
	"github.com/aman-zulfiqar/raydium-token-price/internal/pricing"
	"github.com/aman-zulfiqar/raydium-token-price/internal/rpc"
	"github.com/aman-zulfiqar/raydium-token-price/internal/server"
	"github.com/aman-zulfiqar/raydium-token-price/internal/storage"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main starts the price API with graceful shutdown
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := rpc.NewClient(rpc.ClientConfig{
		BaseURL:    cfg.RPCUrl,
		Commitment: cfg.Commitment,
		Timeout:    cfg.RPCTimeout,
		Logger:     logger,
	})
	defer client.Close()

	computer, err := pricing.NewComputer(pricing.Config{
		Chain:         client,
		LayoutVersion: cfg.LayoutVersion,
		Logger:        logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create price computer")
	}

	// Quote recording is optional; the API serves prices without it
	var sink storage.QuoteSink
	sinks, err := cache.NewSinks(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Warn("quote recording disabled")
	} else if len(sinks) > 0 {
		sink = sinks
		defer sinks.Close()
	}

	h := &server.Handlers{
		Directory:         directory.NewSource(cfg.DirectoryFile, cfg.DirectoryURL, cfg.HTTPTimeout, logger),
		IncludeUnofficial: cfg.IncludeUnofficial,
		Prices:            computer,
		Sink:              sink,
		Timeout:           cfg.HTTPTimeout,
		DevMode:           cfg.DevMode,
		Logger:            logger,
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:   cfg.APIAddr,
			APIKey: cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.APIAddr).Info("api server starting")
	if err := srv.Start(); err != nil {
		logger.WithError(err).Fatal("api server failed")
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.WaitClosed(waitCtx); err != nil {
		logger.WithError(err).Warn("shutdown did not complete")
	}
}
