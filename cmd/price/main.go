package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/raydium-token-price/internal/cache"
	"github.com/aman-zulfiqar/raydium-token-price/internal/config"
	"github.com/aman-zulfiqar/raydium-token-price/internal/directory"
	"github.com/aman-zulfiqar/raydium-token-price/internal/pricing"
	"github.com/aman-zulfiqar/raydium-token-price/internal/rpc"
	"github.com/aman-zulfiqar/raydium-token-price/internal/storage"
	"github.com/aman-zulfiqar/raydium-token-price/internal/stream"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Debugf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Debugf("loaded .env from %s", envPath)
	}
}

func newLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(os.Stderr)
	loadEnv(logger)

	os.Exit(run(ctx, os.Args[1:], os.Stdout, logger))
}

// run prints one line, "<n> SOL" or "undefined", for the token mint in args.
// A failed price computation is degraded output and still exits 0.
func run(ctx context.Context, args []string, stdout io.Writer, logger *logrus.Logger) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("price", flag.ContinueOnError)
	fs.SetOutput(logger.Out)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: price [flags] <token-mint-id>")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.RPCUrl, "rpc", cfg.RPCUrl, "Solana JSON-RPC endpoint")
	fs.StringVar(&cfg.DirectoryURL, "directory", cfg.DirectoryURL, "pool directory URL")
	fs.StringVar(&cfg.DirectoryFile, "directory-file", cfg.DirectoryFile, "read the pool directory from a file instead of the URL")
	fs.IntVar(&cfg.LayoutVersion, "layout", cfg.LayoutVersion, "pool account layout version")
	fs.BoolVar(&cfg.IncludeUnofficial, "include-unofficial", cfg.IncludeUnofficial, "also resolve against unofficial pools")
	verbose := fs.Bool("v", false, "verbose logging")
	record := fs.Bool("record", false, "record the quote to the configured Redis/ClickHouse sinks")
	watch := fs.Duration("watch", 0, "recompute and print the price on this interval until interrupted")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	token := fs.Arg(0)

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("invalid configuration")
		return exitUsage
	}

	src := directory.NewSource(cfg.DirectoryFile, cfg.DirectoryURL, cfg.HTTPTimeout, logger)
	dir, err := src.Fetch(ctx)
	if err != nil {
		logger.WithError(err).Error("failed to load pool directory")
		return exitError
	}

	poolID, programID := directory.Resolve(token, dir.Entries(cfg.IncludeUnofficial))
	logger.WithFields(logrus.Fields{
		"token":             token,
		"pool":              poolID,
		"market_program_id": programID,
	}).Debug("resolved pool")

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
		logger.WithError(err).Error("failed to create price computer")
		return exitError
	}

	var sinks storage.MultiSink
	if *record {
		sinks = openSinks(ctx, cfg, logger)
		defer sinks.Close()
	}

	emit := func(q *pricing.Quote, err error) {
		out, ok := computer.Render(poolID, programID, q, err)
		fmt.Fprintln(stdout, out)
		if ok {
			recordQuote(ctx, sinks, q, logger)
		}
	}

	if *watch > 0 {
		poller, err := stream.NewPoller(stream.PollerConfig{
			Prices:          computer,
			PoolID:          poolID,
			MarketProgramID: programID,
			Interval:        *watch,
			Logger:          logger,
		})
		if err != nil {
			logger.WithError(err).Error("failed to create poller")
			return exitError
		}
		if err := poller.Start(ctx, emit); pollingFailed(err) {
			logger.WithError(err).Error("price polling stopped")
			return exitError
		}
		return exitOK
	}

	emit(computer.Compute(ctx, poolID, programID))
	return exitOK
}

// pollingFailed reports whether the poller stopped for a reason other than
// the context ending
func pollingFailed(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// openSinks connects the configured Redis/ClickHouse sinks. Failures are
// logged and leave recording disabled.
func openSinks(ctx context.Context, cfg *config.Config, logger *logrus.Logger) storage.MultiSink {
	sinks, err := cache.NewSinks(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Warn("failed to open quote sinks")
		return nil
	}
	if len(sinks) == 0 {
		logger.Warn("-record set but neither REDIS_ADDR nor CLICKHOUSE_ADDR is configured")
	}
	return sinks
}

// recordQuote writes a successful quote to every sink.
// Recording problems are logged and never change the printed result.
func recordQuote(ctx context.Context, sinks storage.MultiSink, q *pricing.Quote, logger *logrus.Logger) {
	if len(sinks) == 0 {
		return
	}
	m, ok := q.Model()
	if !ok {
		logger.Debug("quote has no finite price, not recording")
		return
	}
	if err := sinks.RecordQuote(ctx, m); err != nil {
		logger.WithError(err).Warn("failed to record quote")
	}
}
