package server

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Kind    string `json:"kind,omitempty"`    // Price failure kind, when one applies
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"`
}

// PoolResponse is the resolved pool for a token
type PoolResponse struct {
	Token           string `json:"token"`
	Pool            string `json:"pool"`
	MarketProgramID string `json:"market_program_id"`
}

// PriceResponse is a token price in SOL. Price is omitted when there is no
// finite number to report; Display always carries the rendered line.
type PriceResponse struct {
	Token           string   `json:"token"`
	Pool            string   `json:"pool"`
	MarketProgramID string   `json:"market_program_id"`
	BaseReserve     float64  `json:"base_reserve"`
	QuoteReserve    float64  `json:"quote_reserve"`
	Price           *float64 `json:"price,omitempty"`
	Display         string   `json:"display"`
	ComputedAt      string   `json:"computed_at"`
}
