package directory

import "github.com/aman-zulfiqar/raydium-token-price/internal/constants"

// Resolve returns the pool address and order-book program id of the pool pairing
// token with the native mint, in either order. When several entries match, the
// last one in iteration order wins. No match returns two empty strings.
func Resolve(token string, entries []Entry) (poolAddress, marketProgramID string) {
	const nativeMint = constants.NativeMintAddress
	for _, e := range entries {
		if (e.BaseMint == token && e.QuoteMint == nativeMint) ||
			(e.BaseMint == nativeMint && e.QuoteMint == token) {
			poolAddress = e.ID
			marketProgramID = e.MarketProgramID
		}
	}
	return poolAddress, marketProgramID
}
