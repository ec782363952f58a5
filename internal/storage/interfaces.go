package storage

import (
	"context"
	"errors"
	"io"

	"github.com/aman-zulfiqar/raydium-token-price/internal/models"
)

// QuoteSink records computed quotes. Sinks are write-only; nothing reads a
// recorded quote back into a price computation.
type QuoteSink interface {
	// RecordQuote stores or publishes a single quote
	RecordQuote(ctx context.Context, quote *models.PriceQuote) error

	// Ping checks if the sink is reachable
	Ping(ctx context.Context) error

	io.Closer
}

// QuoteHandler is a function that processes published quotes
type QuoteHandler func(*models.PriceQuote)

// MultiSink fans a quote out to every sink and joins their errors
type MultiSink []QuoteSink

func (m MultiSink) RecordQuote(ctx context.Context, quote *models.PriceQuote) error {
	var errs []error
	for _, s := range m {
		if err := s.RecordQuote(ctx, quote); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Ping(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		if err := s.Ping(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
