package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/aman-zulfiqar/raydium-token-price/internal/constants"
	"github.com/aman-zulfiqar/raydium-token-price/internal/openbook"
	"github.com/aman-zulfiqar/raydium-token-price/internal/raydium"
	"github.com/aman-zulfiqar/raydium-token-price/internal/rpc"
)

// Chain is the read side of a chain connection
type Chain interface {
	openbook.AccountFetcher
	GetTokenAccountBalance(ctx context.Context, address solana.PublicKey) (*rpc.TokenBalance, error)
}

// OpenOrdersLoader loads the order-book aggregate for a pool's open orders account
type OpenOrdersLoader func(ctx context.Context, fetcher openbook.AccountFetcher, address, programID solana.PublicKey) (*openbook.OpenOrders, error)

// Config holds the collaborators of a Computer
type Config struct {
	Chain          Chain
	LoadOpenOrders OpenOrdersLoader // defaults to openbook.Load
	LayoutVersion  int              // defaults to constants.DefaultLayoutVersion
	NativeMint     solana.PublicKey // defaults to wrapped SOL
	Logger         *logrus.Logger
	Now            func() time.Time
}

// Computer derives a token's price in SOL from a pool's on-chain state
type Computer struct {
	chain          Chain
	loadOpenOrders OpenOrdersLoader
	layoutVersion  int
	nativeMint     solana.PublicKey
	logger         *logrus.Logger
	now            func() time.Time
}

// Quote is a computed price together with the reserves it came from
type Quote struct {
	Pool            solana.PublicKey
	MarketProgramID solana.PublicKey
	BaseMint        solana.PublicKey
	QuoteMint       solana.PublicKey
	Token           solana.PublicKey // the non-native side; zero when not oriented
	Reserves        Reserves
	Price           float64
	Oriented        bool // false when neither mint is the native mint
	ComputedAt      time.Time
}

// String renders the quote as "<number> SOL". An unoriented quote has no number.
func (q *Quote) String() string {
	if !q.Oriented {
		return constants.CurrencySuffix
	}
	return FormatNumber(q.Price) + constants.CurrencySuffix
}

func NewComputer(cfg Config) (*Computer, error) {
	if cfg.Chain == nil {
		return nil, fmt.Errorf("pricing: chain is nil")
	}
	if cfg.LoadOpenOrders == nil {
		cfg.LoadOpenOrders = openbook.Load
	}
	if cfg.LayoutVersion == 0 {
		cfg.LayoutVersion = constants.DefaultLayoutVersion
	}
	if cfg.NativeMint.IsZero() {
		cfg.NativeMint = constants.NativeMint
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Computer{
		chain:          cfg.Chain,
		loadOpenOrders: cfg.LoadOpenOrders,
		layoutVersion:  cfg.LayoutVersion,
		nativeMint:     cfg.NativeMint,
		logger:         cfg.Logger,
		now:            cfg.Now,
	}, nil
}

// Compute fetches the pool and its order-book aggregate and returns the
// reconciled price. Failures are *Error values; use KindOf to inspect them.
// Division by a zero reserve yields Inf or NaN, not an error.
func (c *Computer) Compute(ctx context.Context, poolID, marketProgramID string) (*Quote, error) {
	poolKey, err := solana.PublicKeyFromBase58(poolID)
	if err != nil {
		return nil, newError(KindInvalidAddress, fmt.Sprintf("parse pool id %q", poolID), err)
	}
	programKey, err := solana.PublicKeyFromBase58(marketProgramID)
	if err != nil {
		return nil, newError(KindInvalidAddress, fmt.Sprintf("parse market program id %q", marketProgramID), err)
	}

	acc, err := c.chain.GetAccount(ctx, poolKey)
	if err != nil {
		return nil, classify("fetch pool account", err)
	}

	state, err := raydium.DecodePoolState(poolKey, acc.Data, c.layoutVersion)
	if err != nil {
		return nil, newError(KindDecode, "decode pool state", err)
	}

	// Vault balances and open orders depend only on the decoded state.
	var (
		baseBal, quoteBal *rpc.TokenBalance
		openOrders        *openbook.OpenOrders
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := c.chain.GetTokenAccountBalance(gctx, state.BaseVault)
		if err != nil {
			return classify("fetch base vault balance", err)
		}
		baseBal = b
		return nil
	})
	g.Go(func() error {
		b, err := c.chain.GetTokenAccountBalance(gctx, state.QuoteVault)
		if err != nil {
			return classify("fetch quote vault balance", err)
		}
		quoteBal = b
		return nil
	})
	g.Go(func() error {
		oo, err := c.loadOpenOrders(gctx, c.chain, state.OpenOrders, programKey)
		if err != nil {
			return classify("load open orders", err)
		}
		openOrders = oo
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reserves := Reconcile(state, Balances{
		BaseVaultUI:          baseBal.UIAmountOrZero(),
		QuoteVaultUI:         quoteBal.UIAmountOrZero(),
		OpenOrdersBaseTotal:  openOrders.BaseTokenTotal,
		OpenOrdersQuoteTotal: openOrders.QuoteTokenTotal,
	})
	price, oriented := Orient(state, reserves, c.nativeMint)

	q := &Quote{
		Pool:            poolKey,
		MarketProgramID: programKey,
		BaseMint:        state.BaseMint,
		QuoteMint:       state.QuoteMint,
		Reserves:        reserves,
		Price:           price,
		Oriented:        oriented,
		ComputedAt:      c.now().UTC(),
	}
	if oriented {
		q.Token = state.BaseMint
		if state.BaseMint.Equals(c.nativeMint) {
			q.Token = state.QuoteMint
		}
	}

	c.logger.WithFields(logrus.Fields{
		"pool":          poolKey.String(),
		"base_reserve":  reserves.Base,
		"quote_reserve": reserves.Quote,
		"oriented":      oriented,
	}).Debug("computed price")

	return q, nil
}

// Display computes the price and renders it for output. Any failure is logged
// and collapsed to ("undefined", false).
func (c *Computer) Display(ctx context.Context, poolID, marketProgramID string) (string, bool) {
	q, err := c.Compute(ctx, poolID, marketProgramID)
	return c.Render(poolID, marketProgramID, q, err)
}

// Render turns the result of Compute into the output line, logging and
// collapsing a failure to ("undefined", false).
func (c *Computer) Render(poolID, marketProgramID string, q *Quote, err error) (string, bool) {
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"pool":              poolID,
			"market_program_id": marketProgramID,
			"kind":              KindOf(err).String(),
		}).Error("price computation failed")
		return constants.UndefinedPrice, false
	}
	return q.String(), true
}
