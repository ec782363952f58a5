package raydium

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// PoolState is the part of a decoded pool account used to price its token
type PoolState struct {
	Address solana.PublicKey

	BaseMint  solana.PublicKey
	QuoteMint solana.PublicKey

	BaseDecimal  uint64 // decimal exponent of the base mint
	QuoteDecimal uint64 // decimal exponent of the quote mint

	BaseVault  solana.PublicKey
	QuoteVault solana.PublicKey

	// Raw amounts owed to the pool that have not yet been moved into the vaults
	BaseNeedTakePnl  uint64
	QuoteNeedTakePnl uint64

	OpenOrders      solana.PublicKey
	MarketID        solana.PublicKey
	MarketProgramID solana.PublicKey
}

// DecodePoolState decodes a pool account and projects it to a PoolState
func DecodePoolState(address solana.PublicKey, data []byte, version int) (*PoolState, error) {
	s, err := DecodeLiquidityState(data, version)
	if err != nil {
		return nil, err
	}
	return s.PoolState(address), nil
}

// PoolState projects the full layout to the fields needed for pricing
func (s *LiquidityStateV4) PoolState(address solana.PublicKey) *PoolState {
	return &PoolState{
		Address:          address,
		BaseMint:         s.BaseMint,
		QuoteMint:        s.QuoteMint,
		BaseDecimal:      s.BaseDecimal,
		QuoteDecimal:     s.QuoteDecimal,
		BaseVault:        s.BaseVault,
		QuoteVault:       s.QuoteVault,
		BaseNeedTakePnl:  s.BaseNeedTakePnl,
		QuoteNeedTakePnl: s.QuoteNeedTakePnl,
		OpenOrders:       s.OpenOrders,
		MarketID:         s.MarketID,
		MarketProgramID:  s.MarketProgramID,
	}
}

// Encode serializes the state in the v4 layout
func (s *LiquidityStateV4) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(LiquidityStateV4Size)
	if err := bin.NewBinEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("encode liquidity state: %w", err)
	}
	return buf.Bytes(), nil
}
