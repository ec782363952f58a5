package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/raydium-token-price/internal/pricing"
)

type countingComputer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingComputer) Compute(_ context.Context, poolID, _ string) (*pricing.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &pricing.Quote{Price: float64(c.calls), Oriented: true}, nil
}

func newTestPoller(t *testing.T, computer PriceComputer) *Poller {
	t.Helper()
	logger, _ := test.NewNullLogger()
	p, err := NewPoller(PollerConfig{
		Prices:          computer,
		PoolID:          "pool",
		MarketProgramID: "program",
		Interval:        5 * time.Millisecond,
		Logger:          logger,
	})
	require.NoError(t, err)
	return p
}

func TestNewPoller_Validation(t *testing.T) {
	_, err := NewPoller(PollerConfig{Interval: time.Second})
	assert.Error(t, err)

	_, err = NewPoller(PollerConfig{Prices: &countingComputer{}})
	assert.Error(t, err)
}

func TestPoller_RecomputesEveryTick(t *testing.T) {
	computer := &countingComputer{}
	p := newTestPoller(t, computer)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []string
	err := p.Start(ctx, func(q *pricing.Quote, err error) {
		require.NoError(t, err)
		got = append(got, q.String())
		if len(got) == 3 {
			cancel()
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"1 SOL", "2 SOL", "3 SOL"}, got)
}

func TestPoller_DeliversFailures(t *testing.T) {
	boom := errors.New("rpc down")
	p := newTestPoller(t, &countingComputer{err: boom})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got error
	_ = p.Start(ctx, func(q *pricing.Quote, err error) {
		assert.Nil(t, q)
		got = err
		cancel()
	})
	assert.ErrorIs(t, got, boom)
}

func TestPoller_RejectsConcurrentStart(t *testing.T) {
	p := newTestPoller(t, &countingComputer{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	done := make(chan error, 1)
	var once sync.Once
	go func() {
		done <- p.Start(ctx, func(*pricing.Quote, error) { once.Do(func() { close(started) }) })
	}()
	<-started

	err := p.Start(ctx, func(*pricing.Quote, error) {})
	assert.EqualError(t, err, "poller already running")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
