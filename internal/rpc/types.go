package rpc

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

// ErrAccountNotFound is returned when the RPC node has no account at the address
var ErrAccountNotFound = errors.New("account not found")

// Account is the subset of getAccountInfo the pricing path needs
type Account struct {
	Address  solana.PublicKey
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}

// TokenBalance represents token balance information from getTokenAccountBalance
type TokenBalance struct {
	Account  solana.PublicKey
	Amount   string
	Decimals uint8
	UIAmount *float64 // nil when the node omits uiAmount
}

// UIAmountOrZero returns the ui-scaled balance, treating an absent value as 0
func (b *TokenBalance) UIAmountOrZero() float64 {
	if b == nil || b.UIAmount == nil {
		return 0
	}
	return *b.UIAmount
}
