package pricing

import (
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/raydium-token-price/internal/raydium"
)

// Balances are the per-query reads that sit next to the decoded pool state.
// Vault balances are already ui-scaled; open orders totals are raw.
type Balances struct {
	BaseVaultUI  float64
	QuoteVaultUI float64

	OpenOrdersBaseTotal  uint64
	OpenOrdersQuoteTotal uint64
}

// Reserves are the reconciled ui-scaled totals on each side of the pool
type Reserves struct {
	Base  float64
	Quote float64
}

// DecimalDivisor converts a decimal exponent to the divisor 10^exp
func DecimalDivisor(exp uint64) float64 {
	if exp > 308 {
		return math.Inf(1)
	}
	return math.Pow10(int(exp))
}

// ScaleRaw converts a raw integer amount to ui units
func ScaleRaw(raw uint64, divisor float64) float64 {
	return float64(raw) / divisor
}

// Reconcile adds resting order-book liquidity to each vault and removes
// the amounts still owed as pending PnL.
func Reconcile(state *raydium.PoolState, b Balances) Reserves {
	baseDecimal := DecimalDivisor(state.BaseDecimal)
	quoteDecimal := DecimalDivisor(state.QuoteDecimal)

	basePnl := ScaleRaw(state.BaseNeedTakePnl, baseDecimal)
	quotePnl := ScaleRaw(state.QuoteNeedTakePnl, quoteDecimal)

	openOrdersBase := ScaleRaw(b.OpenOrdersBaseTotal, baseDecimal)
	openOrdersQuote := ScaleRaw(b.OpenOrdersQuoteTotal, quoteDecimal)

	return Reserves{
		Base:  b.BaseVaultUI + openOrdersBase - basePnl,
		Quote: b.QuoteVaultUI + openOrdersQuote - quotePnl,
	}
}

// Orient returns the price of the non-native token in native units.
// ok is false when neither side of the pool is the native mint.
func Orient(state *raydium.PoolState, r Reserves, nativeMint solana.PublicKey) (price float64, ok bool) {
	switch {
	case state.BaseMint.Equals(nativeMint):
		return r.Base / r.Quote, true
	case state.QuoteMint.Equals(nativeMint):
		return r.Quote / r.Base, true
	default:
		return 0, false
	}
}
