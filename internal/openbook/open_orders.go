package openbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/raydium-token-price/internal/rpc"
)

const (
	OpenOrdersV1Size = 3220
	OpenOrdersV2Size = 3228
)

// Account flag bits shared by every order-book account type
const (
	FlagInitialized  uint64 = 1 << 0
	FlagMarket       uint64 = 1 << 1
	FlagOpenOrders   uint64 = 1 << 2
	FlagRequestQueue uint64 = 1 << 3
	FlagEventQueue   uint64 = 1 << 4
	FlagBids         uint64 = 1 << 5
	FlagAsks         uint64 = 1 << 6
)

var (
	ErrWrongOwner    = errors.New("address not owned by program")
	ErrNotOpenOrders = errors.New("invalid open orders account")
	ErrShortData     = errors.New("open orders data too short")
	ErrMalformed     = errors.New("malformed open orders data")
)

// legacyPrograms use the open orders layout without referrer rebates.
var legacyPrograms = map[solana.PublicKey]struct{}{
	solana.MustPublicKeyFromBase58("4ckmDgGdxQoPDLUkDT3vHgSAkzA3QRdNq5ywwY4sUSJn"): {},
	solana.MustPublicKeyFromBase58("BJ3jrUzddfuSrZHXSCxMUUQsjKEyLmuuyZebkcaFp2fg"): {},
}

// AccountFetcher reads raw account state
type AccountFetcher interface {
	GetAccount(ctx context.Context, address solana.PublicKey) (*rpc.Account, error)
}

// OpenOrders is a trader's open orders account on a Serum/OpenBook market.
// Token totals are raw amounts, free + locked in resting orders.
type OpenOrders struct {
	Head                   [5]byte
	AccountFlags           uint64
	Market                 solana.PublicKey
	Owner                  solana.PublicKey
	BaseTokenFree          uint64
	BaseTokenTotal         uint64
	QuoteTokenFree         uint64
	QuoteTokenTotal        uint64
	FreeSlotBits           [16]byte
	IsBidBits              [16]byte
	Orders                 [128][16]byte
	ClientIDs              [128]uint64
	ReferrerRebatesAccrued uint64
	Tail                   [7]byte
}

type openOrdersV1 struct {
	Head            [5]byte
	AccountFlags    uint64
	Market          solana.PublicKey
	Owner           solana.PublicKey
	BaseTokenFree   uint64
	BaseTokenTotal  uint64
	QuoteTokenFree  uint64
	QuoteTokenTotal uint64
	FreeSlotBits    [16]byte
	IsBidBits       [16]byte
	Orders          [128][16]byte
	ClientIDs       [128]uint64
	Tail            [7]byte
}

// LayoutVersion returns 1 for the legacy Serum v1/v2 programs and 2 otherwise
func LayoutVersion(programID solana.PublicKey) int {
	if _, ok := legacyPrograms[programID]; ok {
		return 1
	}
	return 2
}

// Load fetches and decodes the open orders account at address, which must be owned by programID
func Load(ctx context.Context, fetcher AccountFetcher, address, programID solana.PublicKey) (*OpenOrders, error) {
	acc, err := fetcher.GetAccount(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("load open orders %s: %w", address, err)
	}
	return FromAccount(acc, programID)
}

// FromAccount validates ownership and decodes an already fetched account
func FromAccount(acc *rpc.Account, programID solana.PublicKey) (*OpenOrders, error) {
	if !acc.Owner.Equals(programID) {
		return nil, fmt.Errorf("%w: %s owned by %s, want %s", ErrWrongOwner, acc.Address, acc.Owner, programID)
	}

	oo, err := Decode(acc.Data, LayoutVersion(programID))
	if err != nil {
		return nil, err
	}

	if oo.AccountFlags&FlagInitialized == 0 || oo.AccountFlags&FlagOpenOrders == 0 {
		return nil, fmt.Errorf("%w: %s flags=%#x", ErrNotOpenOrders, acc.Address, oo.AccountFlags)
	}
	return oo, nil
}

// Decode decodes open orders bytes for the given layout version
func Decode(data []byte, version int) (*OpenOrders, error) {
	if version == 1 {
		if len(data) < OpenOrdersV1Size {
			return nil, fmt.Errorf("%w: v1 needs %d bytes, got %d", ErrShortData, OpenOrdersV1Size, len(data))
		}
		var v1 openOrdersV1
		if err := bin.NewBinDecoder(data[:OpenOrdersV1Size]).Decode(&v1); err != nil {
			return nil, fmt.Errorf("%w: v1: %v", ErrMalformed, err)
		}
		return v1.upgrade(), nil
	}

	if len(data) < OpenOrdersV2Size {
		return nil, fmt.Errorf("%w: v2 needs %d bytes, got %d", ErrShortData, OpenOrdersV2Size, len(data))
	}
	var oo OpenOrders
	if err := bin.NewBinDecoder(data[:OpenOrdersV2Size]).Decode(&oo); err != nil {
		return nil, fmt.Errorf("%w: v2: %v", ErrMalformed, err)
	}
	return &oo, nil
}

// Encode serializes the account in the layout used by programID
func (o *OpenOrders) Encode(programID solana.PublicKey) ([]byte, error) {
	var v any = o
	if LayoutVersion(programID) == 1 {
		v = o.downgrade()
	}

	var buf bytes.Buffer
	if err := bin.NewBinEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encode open orders: %w", err)
	}
	return buf.Bytes(), nil
}

func (v1 *openOrdersV1) upgrade() *OpenOrders {
	return &OpenOrders{
		Head:            v1.Head,
		AccountFlags:    v1.AccountFlags,
		Market:          v1.Market,
		Owner:           v1.Owner,
		BaseTokenFree:   v1.BaseTokenFree,
		BaseTokenTotal:  v1.BaseTokenTotal,
		QuoteTokenFree:  v1.QuoteTokenFree,
		QuoteTokenTotal: v1.QuoteTokenTotal,
		FreeSlotBits:    v1.FreeSlotBits,
		IsBidBits:       v1.IsBidBits,
		Orders:          v1.Orders,
		ClientIDs:       v1.ClientIDs,
		Tail:            v1.Tail,
	}
}

func (o *OpenOrders) downgrade() *openOrdersV1 {
	return &openOrdersV1{
		Head:            o.Head,
		AccountFlags:    o.AccountFlags,
		Market:          o.Market,
		Owner:           o.Owner,
		BaseTokenFree:   o.BaseTokenFree,
		BaseTokenTotal:  o.BaseTokenTotal,
		QuoteTokenFree:  o.QuoteTokenFree,
		QuoteTokenTotal: o.QuoteTokenTotal,
		FreeSlotBits:    o.FreeSlotBits,
		IsBidBits:       o.IsBidBits,
		Orders:          o.Orders,
		ClientIDs:       o.ClientIDs,
		Tail:            o.Tail,
	}
}
