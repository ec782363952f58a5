package models

import "time"

// PriceQuote is a recorded token price in SOL
type PriceQuote struct {
	Token           string    `json:"token"`
	Pool            string    `json:"pool"`
	MarketProgramID string    `json:"market_program_id"`
	BaseMint        string    `json:"base_mint"`
	QuoteMint       string    `json:"quote_mint"`
	BaseReserve     float64   `json:"base_reserve"`
	QuoteReserve    float64   `json:"quote_reserve"`
	Price           float64   `json:"price"`
	Display         string    `json:"display"` // e.g. "0.5 SOL"
	Timestamp       time.Time `json:"timestamp"`
}
