package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRPCServer answers JSON-RPC calls with the result returned by handle for the method.
func newRPCServer(t *testing.T, handle func(method string, params []json.RawMessage) any) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handle(req.Method, req.Params),
		})
	}))
}

func newTestClient(url string) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(ClientConfig{BaseURL: url, Timeout: 5 * time.Second, Logger: logger})
}

func TestClient_GetAccount(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	payload := []byte{1, 2, 3, 4, 5}

	srv := newRPCServer(t, func(method string, params []json.RawMessage) any {
		assert.Equal(t, "getAccountInfo", method)
		return map[string]any{
			"context": map[string]any{"slot": 1},
			"value": map[string]any{
				"data":       []string{base64.StdEncoding.EncodeToString(payload), "base64"},
				"executable": false,
				"lamports":   2039280,
				"owner":      owner.String(),
				"rentEpoch":  0,
			},
		}
	})
	defer srv.Close()

	c := newTestClient(srv.URL)
	defer c.Close()

	address := solana.NewWallet().PublicKey()
	acc, err := c.GetAccount(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, address, acc.Address)
	assert.Equal(t, owner, acc.Owner)
	assert.Equal(t, uint64(2039280), acc.Lamports)
	assert.Equal(t, payload, acc.Data)
}

func TestClient_GetAccount_NotFound(t *testing.T) {
	srv := newRPCServer(t, func(string, []json.RawMessage) any {
		return map[string]any{
			"context": map[string]any{"slot": 1},
			"value":   nil,
		}
	})
	defer srv.Close()

	c := newTestClient(srv.URL)

	acc, err := c.GetAccount(context.Background(), solana.NewWallet().PublicKey())
	assert.Nil(t, acc)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestClient_GetAccount_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.GetAccount(context.Background(), solana.NewWallet().PublicKey())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAccountNotFound)
}

func TestClient_GetTokenAccountBalance(t *testing.T) {
	srv := newRPCServer(t, func(method string, _ []json.RawMessage) any {
		assert.Equal(t, "getTokenAccountBalance", method)
		return map[string]any{
			"context": map[string]any{"slot": 1},
			"value": map[string]any{
				"amount":         "200000000",
				"decimals":       6,
				"uiAmount":       200.0,
				"uiAmountString": "200",
			},
		}
	})
	defer srv.Close()

	c := newTestClient(srv.URL)

	bal, err := c.GetTokenAccountBalance(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.Equal(t, "200000000", bal.Amount)
	assert.Equal(t, uint8(6), bal.Decimals)
	require.NotNil(t, bal.UIAmount)
	assert.Equal(t, 200.0, bal.UIAmountOrZero())
}

func TestClient_GetTokenAccountBalance_NullUIAmount(t *testing.T) {
	srv := newRPCServer(t, func(string, []json.RawMessage) any {
		return map[string]any{
			"context": map[string]any{"slot": 1},
			"value": map[string]any{
				"amount":         "0",
				"decimals":       9,
				"uiAmount":       nil,
				"uiAmountString": "0",
			},
		}
	})
	defer srv.Close()

	c := newTestClient(srv.URL)

	bal, err := c.GetTokenAccountBalance(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.Nil(t, bal.UIAmount)
	assert.Equal(t, 0.0, bal.UIAmountOrZero())
}

func TestTokenBalance_UIAmountOrZero_Nil(t *testing.T) {
	var b *TokenBalance
	assert.Equal(t, 0.0, b.UIAmountOrZero())
}
