package pricing

import (
	"math"

	"github.com/aman-zulfiqar/raydium-token-price/internal/models"
)

// Model converts the quote for recording. ok is false when the quote has no
// finite price, since JSON and the history table cannot carry Inf or NaN.
func (q *Quote) Model() (m *models.PriceQuote, ok bool) {
	if !q.Oriented || math.IsNaN(q.Price) || math.IsInf(q.Price, 0) {
		return nil, false
	}
	return &models.PriceQuote{
		Token:           q.Token.String(),
		Pool:            q.Pool.String(),
		MarketProgramID: q.MarketProgramID.String(),
		BaseMint:        q.BaseMint.String(),
		QuoteMint:       q.QuoteMint.String(),
		BaseReserve:     q.Reserves.Base,
		QuoteReserve:    q.Reserves.Quote,
		Price:           q.Price,
		Display:         q.String(),
		Timestamp:       q.ComputedAt,
	}, true
}
