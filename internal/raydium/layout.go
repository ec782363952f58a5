package raydium

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// LiquidityStateV4Size is the encoded size of an AMM v4 pool account.
const LiquidityStateV4Size = 752

var (
	ErrUnsupportedLayout = errors.New("unsupported liquidity state layout")
	ErrShortData         = errors.New("account data too short for layout")
	ErrMalformed         = errors.New("malformed liquidity state")
)

// LiquidityStateV4 is the on-chain state of a Raydium AMM v4 pool.
// Field order and widths follow the program's account layout.
type LiquidityStateV4 struct {
	Status                 uint64
	Nonce                  uint64
	MaxOrder               uint64
	Depth                  uint64
	BaseDecimal            uint64
	QuoteDecimal           uint64
	State                  uint64
	ResetFlag              uint64
	MinSize                uint64
	VolMaxCutRatio         uint64
	AmountWaveRatio        uint64
	BaseLotSize            uint64
	QuoteLotSize           uint64
	MinPriceMultiplier     uint64
	MaxPriceMultiplier     uint64
	SystemDecimalValue     uint64
	MinSeparateNumerator   uint64
	MinSeparateDenominator uint64
	TradeFeeNumerator      uint64
	TradeFeeDenominator    uint64
	PnlNumerator           uint64
	PnlDenominator         uint64
	SwapFeeNumerator       uint64
	SwapFeeDenominator     uint64
	BaseNeedTakePnl        uint64
	QuoteNeedTakePnl       uint64
	QuoteTotalPnl          uint64
	BaseTotalPnl           uint64
	PoolOpenTime           uint64
	PunishPcAmount         uint64
	PunishCoinAmount       uint64
	OrderbookToInitTime    uint64

	// u128 counters, little-endian
	SwapBaseInAmount   [16]byte
	SwapQuoteOutAmount [16]byte
	SwapBase2QuoteFee  uint64
	SwapQuoteInAmount  [16]byte
	SwapBaseOutAmount  [16]byte
	SwapQuote2BaseFee  uint64

	BaseVault       solana.PublicKey
	QuoteVault      solana.PublicKey
	BaseMint        solana.PublicKey
	QuoteMint       solana.PublicKey
	LpMint          solana.PublicKey
	OpenOrders      solana.PublicKey
	MarketID        solana.PublicKey
	MarketProgramID solana.PublicKey
	TargetOrders    solana.PublicKey
	WithdrawQueue   solana.PublicKey
	LpVault         solana.PublicKey
	Owner           solana.PublicKey

	LpReserve uint64
	Padding   [3]uint64
}

// LayoutSize returns the encoded size for a layout version.
func LayoutSize(version int) (int, error) {
	switch version {
	case 4:
		return LiquidityStateV4Size, nil
	default:
		return 0, fmt.Errorf("%w: v%d", ErrUnsupportedLayout, version)
	}
}

// DecodeLiquidityState decodes pool account bytes with the given layout version.
// Trailing bytes beyond the layout are ignored.
func DecodeLiquidityState(data []byte, version int) (*LiquidityStateV4, error) {
	size, err := LayoutSize(version)
	if err != nil {
		return nil, err
	}
	if len(data) < size {
		return nil, fmt.Errorf("%w: v%d needs %d bytes, got %d", ErrShortData, version, size, len(data))
	}

	var state LiquidityStateV4
	if err := bin.NewBinDecoder(data[:size]).Decode(&state); err != nil {
		return nil, fmt.Errorf("%w: v%d: %v", ErrMalformed, version, err)
	}
	return &state, nil
}
