package cache

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/raydium-token-price/internal/models"
	"github.com/aman-zulfiqar/raydium-token-price/internal/storage"
)

const createTokenPricesTable = `
	CREATE TABLE IF NOT EXISTS token_prices (
		timestamp         DateTime64(3, 'UTC'),
		token             String,
		pool              String,
		market_program_id String,
		base_mint         String,
		quote_mint        String,
		base_reserve      Float64,
		quote_reserve     Float64,
		price             Float64
	) ENGINE = MergeTree()
	ORDER BY (token, timestamp)
`

type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

// ClickHouseStore appends quotes to the token_prices history table
type ClickHouseStore struct {
	conn   driver.Conn
	logger *logrus.Logger
}

var _ storage.QuoteSink = (*ClickHouseStore)(nil)

func NewClickHouseStore(ctx context.Context, cfg ClickHouseConfig, logger *logrus.Logger) (*ClickHouseStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	logger.WithField("addr", cfg.Addr).Info("connected to ClickHouse")

	return &ClickHouseStore{conn: conn, logger: logger}, nil
}

// EnsureSchema creates the history table if it does not exist
func (c *ClickHouseStore) EnsureSchema(ctx context.Context) error {
	if err := c.conn.Exec(ctx, createTokenPricesTable); err != nil {
		return fmt.Errorf("create token_prices: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) RecordQuote(ctx context.Context, quote *models.PriceQuote) error {
	query := `
		INSERT INTO token_prices (
			timestamp, token, pool, market_program_id, base_mint, quote_mint,
			base_reserve, quote_reserve, price
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		quote.Timestamp,
		quote.Token,
		quote.Pool,
		quote.MarketProgramID,
		quote.BaseMint,
		quote.QuoteMint,
		quote.BaseReserve,
		quote.QuoteReserve,
		quote.Price,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}

	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
