package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/raydium-token-price/internal/pricing"
)

// PriceComputer computes a quote for a resolved pool
type PriceComputer interface {
	Compute(ctx context.Context, poolID, marketProgramID string) (*pricing.Quote, error)
}

// QuoteHandler receives the outcome of every poll
type QuoteHandler func(q *pricing.Quote, err error)

// Poller recomputes one pool's price on a fixed interval. Every tick is a
// fresh computation; nothing is carried between ticks.
type Poller struct {
	prices          PriceComputer
	poolID          string
	marketProgramID string
	interval        time.Duration
	logger          *logrus.Logger

	mu      sync.Mutex
	running bool
}

// PollerConfig holds configuration for the price poller
type PollerConfig struct {
	Prices          PriceComputer
	PoolID          string
	MarketProgramID string
	Interval        time.Duration
	Logger          *logrus.Logger
}

func NewPoller(cfg PollerConfig) (*Poller, error) {
	if cfg.Prices == nil {
		return nil, fmt.Errorf("poller: price computer is nil")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("poller: interval must be > 0, got %s", cfg.Interval)
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &Poller{
		prices:          cfg.Prices,
		poolID:          cfg.PoolID,
		marketProgramID: cfg.MarketProgramID,
		interval:        cfg.Interval,
		logger:          cfg.Logger,
	}, nil
}

// Start polls immediately and then on every tick until ctx is done.
// It returns ctx.Err() once stopped.
func (p *Poller) Start(ctx context.Context, handler QuoteHandler) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("poller already running")
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	p.logger.WithFields(logrus.Fields{
		"pool":     p.poolID,
		"interval": p.interval.String(),
	}).Info("starting price polling")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.poll(ctx, handler)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context, handler QuoteHandler) {
	start := time.Now()
	q, err := p.prices.Compute(ctx, p.poolID, p.marketProgramID)
	if ctx.Err() != nil {
		return
	}

	p.logger.WithFields(logrus.Fields{
		"pool": p.poolID,
		"took": time.Since(start).String(),
		"ok":   err == nil,
	}).Debug("polled price")

	handler(q, err)
}
