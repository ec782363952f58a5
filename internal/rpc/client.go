package rpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
)

// Client reads account state from a Solana JSON-RPC endpoint
type Client struct {
	rpc        *solanarpc.Client
	commitment solanarpc.CommitmentType
	timeout    time.Duration
	logger     *logrus.Logger
}

// ClientConfig holds configuration for the RPC client
type ClientConfig struct {
	BaseURL    string
	Commitment string
	Timeout    time.Duration
	Logger     *logrus.Logger
}

// NewClient creates a new RPC client. Calls are issued once; there is no retry.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = solanarpc.MainNetBeta_RPC
	}
	commitment := solanarpc.CommitmentConfirmed
	if cfg.Commitment != "" {
		commitment = solanarpc.CommitmentType(cfg.Commitment)
	}

	return &Client{
		rpc:        solanarpc.New(cfg.BaseURL),
		commitment: commitment,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}
}

// GetAccount fetches the raw account data for address.
// A missing account is reported as ErrAccountNotFound.
func (c *Client) GetAccount(ctx context.Context, address solana.PublicKey) (*Account, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &solanarpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if errors.Is(err, solanarpc.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	if err != nil {
		return nil, fmt.Errorf("getAccountInfo %s: %w", address, err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}

	acc := &Account{
		Address:  address,
		Owner:    out.Value.Owner,
		Lamports: out.Value.Lamports,
	}
	if out.Value.Data != nil {
		acc.Data = out.Value.Data.GetBinary()
	}

	c.logger.WithFields(logrus.Fields{
		"account": address.String(),
		"owner":   acc.Owner.String(),
		"bytes":   len(acc.Data),
	}).Debug("fetched account")

	return acc, nil
}

// GetTokenAccountBalance fetches the balance of an SPL token account
func (c *Client) GetTokenAccountBalance(ctx context.Context, address solana.PublicKey) (*TokenBalance, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	out, err := c.rpc.GetTokenAccountBalance(ctx, address, c.commitment)
	if err != nil {
		return nil, fmt.Errorf("getTokenAccountBalance %s: %w", address, err)
	}
	if out == nil || out.Value == nil {
		return &TokenBalance{Account: address}, nil
	}

	bal := &TokenBalance{
		Account:  address,
		Amount:   out.Value.Amount,
		Decimals: out.Value.Decimals,
		UIAmount: out.Value.UiAmount,
	}

	c.logger.WithFields(logrus.Fields{
		"account": address.String(),
		"amount":  bal.Amount,
	}).Debug("fetched token balance")

	return bal, nil
}

// Close releases the underlying HTTP transport
func (c *Client) Close() error {
	return c.rpc.Close()
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
