package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/raydium-token-price/internal/directory"
	"github.com/aman-zulfiqar/raydium-token-price/internal/pricing"
	"github.com/aman-zulfiqar/raydium-token-price/internal/storage"
)

// PriceComputer computes a quote for a resolved pool
type PriceComputer interface {
	Compute(ctx context.Context, poolID, marketProgramID string) (*pricing.Quote, error)
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Directory         directory.Source  // Pool directory, fetched on every request
	IncludeUnofficial bool              // Also resolve against unofficial pools
	Prices            PriceComputer     // On-chain price computation
	Sink              storage.QuoteSink // Optional quote recorder (can be nil)
	Timeout           time.Duration     // Per-request budget, defaults to 30s
	DevMode           bool              // Enable detailed error responses in development
	Logger            *logrus.Logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

func (h *Handlers) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	d := h.Timeout
	if d <= 0 {
		d = 30 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

func (h *Handlers) logger() *logrus.Logger {
	if h.Logger == nil {
		return logrus.StandardLogger()
	}
	return h.Logger
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

var errNoPool = errors.New("no SOL pool for token")

// resolve fetches the directory and finds the token's pool
func (h *Handlers) resolve(ctx context.Context, mint string) (pool, program string, err error) {
	dir, err := h.Directory.Fetch(ctx)
	if err != nil {
		return "", "", fmt.Errorf("fetch pool directory: %w", err)
	}
	pool, program = directory.Resolve(mint, dir.Entries(h.IncludeUnofficial))
	if pool == "" {
		return "", "", errNoPool
	}
	return pool, program, nil
}

func (h *Handlers) resolveFailed(c echo.Context, err error) error {
	if errors.Is(err, errNoPool) {
		return h.err(c, http.StatusNotFound, errNoPool.Error(), nil)
	}
	h.logger().WithError(err).Error("pool resolution failed")
	return h.err(c, http.StatusBadGateway, "failed to fetch pool directory", map[string]any{"err": err.Error()})
}

// Pool returns the pool the resolver picks for a token mint
func (h *Handlers) Pool(c echo.Context) error {
	mint := strings.TrimSpace(c.Param("mint"))
	if mint == "" {
		return h.err(c, http.StatusBadRequest, "invalid mint", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context())
	defer cancel()

	pool, program, err := h.resolve(ctx, mint)
	if err != nil {
		return h.resolveFailed(c, err)
	}
	return c.JSON(http.StatusOK, PoolResponse{Token: mint, Pool: pool, MarketProgramID: program})
}

// Price resolves the token's pool and computes its price in SOL.
// Mint matching is exact; no case normalization is applied.
func (h *Handlers) Price(c echo.Context) error {
	mint := strings.TrimSpace(c.Param("mint"))
	if mint == "" {
		return h.err(c, http.StatusBadRequest, "invalid mint", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context())
	defer cancel()

	pool, program, err := h.resolve(ctx, mint)
	if err != nil {
		return h.resolveFailed(c, err)
	}

	q, err := h.Prices.Compute(ctx, pool, program)
	if err != nil {
		kind := pricing.KindOf(err)
		h.logger().WithError(err).WithFields(logrus.Fields{
			"mint": mint,
			"pool": pool,
			"kind": kind.String(),
		}).Error("price computation failed")

		code := statusForKind(kind)
		resp := ErrorResponse{Error: "price unavailable", Code: code, Kind: kind.String()}
		if h.DevMode {
			resp.Details = map[string]any{"err": err.Error()}
		}
		return c.JSON(code, resp)
	}

	h.record(ctx, q)

	resp := PriceResponse{
		Token:           mint,
		Pool:            pool,
		MarketProgramID: program,
		BaseReserve:     q.Reserves.Base,
		QuoteReserve:    q.Reserves.Quote,
		Display:         q.String(),
		ComputedAt:      q.ComputedAt.Format(time.RFC3339Nano),
	}
	if q.Oriented && !math.IsNaN(q.Price) && !math.IsInf(q.Price, 0) {
		p := q.Price
		resp.Price = &p
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handlers) record(ctx context.Context, q *pricing.Quote) {
	if h.Sink == nil {
		return
	}
	m, ok := q.Model()
	if !ok {
		return
	}
	if err := h.Sink.RecordQuote(ctx, m); err != nil {
		h.logger().WithError(err).WithField("token", m.Token).Warn("failed to record quote")
	}
}

func statusForKind(kind pricing.Kind) int {
	switch kind {
	case pricing.KindMissingAccount:
		return http.StatusNotFound
	case pricing.KindInvalidAddress:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
