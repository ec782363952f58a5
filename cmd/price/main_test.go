package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/raydium-token-price/internal/constants"
	"github.com/aman-zulfiqar/raydium-token-price/internal/openbook"
	"github.com/aman-zulfiqar/raydium-token-price/internal/raydium"
)

var marketProgram = constants.OpenBookProgramID

type chainFixture struct {
	token, pool, baseVault, quoteVault, openOrders solana.PublicKey
	accounts                                       map[string]map[string]any
	balances                                       map[string]float64
}

func newChainFixture(t *testing.T, baseUI, quoteUI float64) *chainFixture {
	t.Helper()

	f := &chainFixture{
		token:      solana.NewWallet().PublicKey(),
		pool:       solana.NewWallet().PublicKey(),
		baseVault:  solana.NewWallet().PublicKey(),
		quoteVault: solana.NewWallet().PublicKey(),
		openOrders: solana.NewWallet().PublicKey(),
	}

	state := &raydium.LiquidityStateV4{
		BaseDecimal:  6,
		QuoteDecimal: 9,
		BaseMint:     f.token,
		QuoteMint:    constants.NativeMint,
		BaseVault:    f.baseVault,
		QuoteVault:   f.quoteVault,
		OpenOrders:   f.openOrders,
	}
	poolData, err := state.Encode()
	require.NoError(t, err)

	oo := &openbook.OpenOrders{
		Head:         [5]byte{'s', 'e', 'r', 'u', 'm'},
		AccountFlags: openbook.FlagInitialized | openbook.FlagOpenOrders,
	}
	ooData, err := oo.Encode(marketProgram)
	require.NoError(t, err)

	account := func(data []byte, owner solana.PublicKey) map[string]any {
		return map[string]any{
			"data":       []string{base64.StdEncoding.EncodeToString(data), "base64"},
			"executable": false,
			"lamports":   1,
			"owner":      owner.String(),
			"rentEpoch":  0,
		}
	}
	f.accounts = map[string]map[string]any{
		f.pool.String():       account(poolData, constants.RaydiumAMMv4ProgramID),
		f.openOrders.String(): account(ooData, marketProgram),
	}
	f.balances = map[string]float64{
		f.baseVault.String():  baseUI,
		f.quoteVault.String(): quoteUI,
	}
	return f
}

func (f *chainFixture) server(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var address string
		_ = json.Unmarshal(req.Params[0], &address)

		var value any
		switch req.Method {
		case "getAccountInfo":
			if acc, ok := f.accounts[address]; ok {
				value = acc
			}
		case "getTokenAccountBalance":
			ui := f.balances[address]
			value = map[string]any{
				"amount":         "0",
				"decimals":       0,
				"uiAmount":       ui,
				"uiAmountString": fmt.Sprint(ui),
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]any{
				"context": map[string]any{"slot": 1},
				"value":   value,
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeDirectory(t *testing.T, entries ...map[string]string) string {
	t.Helper()

	b, err := json.Marshal(map[string]any{"official": entries, "unOfficial": []any{}})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "mainnet.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	logger := newLogger(&stderr)
	logger.SetLevel(logrus.PanicLevel)
	code := run(context.Background(), args, &stdout, logger)
	return stdout.String(), code
}

func TestRun_PrintsPrice(t *testing.T) {
	f := newChainFixture(t, 100, 200)
	srv := f.server(t)
	dir := writeDirectory(t, map[string]string{
		"id":              f.pool.String(),
		"baseMint":        f.token.String(),
		"quoteMint":       constants.NativeMintAddress,
		"marketProgramId": marketProgram.String(),
	})

	out, code := runCLI(t, "-rpc", srv.URL, "-directory-file", dir, f.token.String())
	assert.Equal(t, 0, code)
	assert.Equal(t, "2 SOL\n", out)
}

func TestRun_MissingPoolAccountIsDegraded(t *testing.T) {
	f := newChainFixture(t, 1, 1)
	delete(f.accounts, f.pool.String())
	srv := f.server(t)
	dir := writeDirectory(t, map[string]string{
		"id":              f.pool.String(),
		"baseMint":        f.token.String(),
		"quoteMint":       constants.NativeMintAddress,
		"marketProgramId": marketProgram.String(),
	})

	out, code := runCLI(t, "-rpc", srv.URL, "-directory-file", dir, f.token.String())
	assert.Equal(t, 0, code)
	assert.Equal(t, "undefined\n", out)
}

func TestRun_UnknownTokenIsDegraded(t *testing.T) {
	dir := writeDirectory(t)

	out, code := runCLI(t, "-directory-file", dir, "NoSuchMint")
	assert.Equal(t, 0, code)
	assert.Equal(t, "undefined\n", out)
}

func TestRun_DirectoryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	out, code := runCLI(t, "-directory", srv.URL, "-directory-file", "", "AnyMint")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)

	out, code = runCLI(t, "-directory-file", filepath.Join(t.TempDir(), "missing.json"), "AnyMint")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no token", args: nil},
		{name: "two tokens", args: []string{"a", "b"}},
		{name: "unknown flag", args: []string{"-nope", "a"}},
		{name: "bad layout", args: []string{"-layout", "0", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code := runCLI(t, tt.args...)
			assert.Equal(t, 2, code)
			assert.Empty(t, out)
		})
	}
}

func TestRun_Watch(t *testing.T) {
	f := newChainFixture(t, 100, 200)
	srv := f.server(t)
	dir := writeDirectory(t, map[string]string{
		"id":              f.pool.String(),
		"baseMint":        f.token.String(),
		"quoteMint":       constants.NativeMintAddress,
		"marketProgramId": marketProgram.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"-rpc", srv.URL, "-directory-file", dir, "-watch", "20ms", f.token.String()}, &stdout, newLogger(&stderr))
	assert.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	for _, l := range lines {
		assert.Equal(t, "2 SOL", l)
	}
}

func TestPollingFailed(t *testing.T) {
	assert.False(t, pollingFailed(nil))
	assert.False(t, pollingFailed(context.Canceled))
	assert.False(t, pollingFailed(fmt.Errorf("poll: %w", context.DeadlineExceeded)))
	assert.True(t, pollingFailed(errors.New("poller already running")))
}
