package directory

// Entry is one pool in the published liquidity directory.
// Only the fields the resolver reads are decoded.
type Entry struct {
	ID              string `json:"id"`
	BaseMint        string `json:"baseMint"`
	QuoteMint       string `json:"quoteMint"`
	LpMint          string `json:"lpMint,omitempty"`
	BaseDecimals    int    `json:"baseDecimals,omitempty"`
	QuoteDecimals   int    `json:"quoteDecimals,omitempty"`
	Version         int    `json:"version,omitempty"`
	ProgramID       string `json:"programId,omitempty"`
	OpenOrders      string `json:"openOrders,omitempty"`
	MarketID        string `json:"marketId,omitempty"`
	MarketProgramID string `json:"marketProgramId"`
}

// Directory is the top-level shape of the directory JSON
type Directory struct {
	Name       string  `json:"name,omitempty"`
	Official   []Entry `json:"official"`
	Unofficial []Entry `json:"unOfficial"`
}

// Entries returns the pools the resolver should scan, official pools first
func (d *Directory) Entries(includeUnofficial bool) []Entry {
	if !includeUnofficial {
		return d.Official
	}
	out := make([]Entry, 0, len(d.Official)+len(d.Unofficial))
	out = append(out, d.Official...)
	out = append(out, d.Unofficial...)
	return out
}
