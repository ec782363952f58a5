package constants

import "github.com/gagliardetto/solana-go"

// Endpoints
const (
	DefaultRPCURL       = "https://api.mainnet-beta.solana.com"
	DefaultDirectoryURL = "https://api.raydium.io/v2/sdk/liquidity/mainnet.json"
)

// DefaultLayoutVersion is the Raydium liquidity state layout read from pool accounts.
const DefaultLayoutVersion = 4

// NativeMintAddress is the wrapped SOL mint.
const NativeMintAddress = "So11111111111111111111111111111111111111112"

var NativeMint = solana.MustPublicKeyFromBase58(NativeMintAddress)

// CurrencySuffix is appended to every rendered price.
const CurrencySuffix = " SOL"

// UndefinedPrice is printed when no price could be computed.
const UndefinedPrice = "undefined"

// Redis keys
const (
	RedisKeyPricePrefix = "price:"
)

// Redis Pub/Sub channels
const (
	PubSubChannelPrices = "prices:live"
)

// Program ids
var (
	RaydiumAMMv4ProgramID = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	OpenBookProgramID     = solana.MustPublicKeyFromBase58("srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX")
	SerumV3ProgramID      = solana.MustPublicKeyFromBase58("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin")
)
