package pricing

import (
	"errors"
	"fmt"

	"github.com/aman-zulfiqar/raydium-token-price/internal/openbook"
	"github.com/aman-zulfiqar/raydium-token-price/internal/raydium"
	"github.com/aman-zulfiqar/raydium-token-price/internal/rpc"
)

// Kind classifies why a price could not be computed
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidAddress
	KindNetwork
	KindDecode
	KindMissingAccount
)

func (k Kind) String() string {
	switch k {
	case KindInvalidAddress:
		return "invalid address"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindMissingAccount:
		return "missing account"
	default:
		return "unknown"
	}
}

// Error is the failure returned by Computer.Compute
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind carried by err, or KindUnknown
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// classify maps collaborator errors onto failure kinds
func classify(op string, err error) *Error {
	switch {
	case errors.Is(err, rpc.ErrAccountNotFound):
		return newError(KindMissingAccount, op, err)
	case errors.Is(err, raydium.ErrShortData),
		errors.Is(err, raydium.ErrUnsupportedLayout),
		errors.Is(err, raydium.ErrMalformed),
		errors.Is(err, openbook.ErrShortData),
		errors.Is(err, openbook.ErrMalformed),
		errors.Is(err, openbook.ErrWrongOwner),
		errors.Is(err, openbook.ErrNotOpenOrders):
		return newError(KindDecode, op, err)
	default:
		return newError(KindNetwork, op, err)
	}
}
