package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aman-zulfiqar/raydium-token-price/internal/models"
)

type recordingSink struct {
	got     []*models.PriceQuote
	err     error
	closed  bool
	pingErr error
}

func (s *recordingSink) RecordQuote(_ context.Context, q *models.PriceQuote) error {
	s.got = append(s.got, q)
	return s.err
}

func (s *recordingSink) Ping(context.Context) error { return s.pingErr }

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func TestMultiSink_RecordQuote(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingSink{}
	b := &recordingSink{err: boom}
	c := &recordingSink{}

	q := &models.PriceQuote{Token: "mint", Price: 0.5}
	err := MultiSink{a, b, c}.RecordQuote(context.Background(), q)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []*models.PriceQuote{q}, a.got)
	assert.Equal(t, []*models.PriceQuote{q}, c.got, "later sinks still receive the quote")
}

func TestMultiSink_PingAndClose(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{pingErr: errors.New("down")}

	assert.Error(t, MultiSink{a, b}.Ping(context.Background()))
	assert.NoError(t, MultiSink{a}.Ping(context.Background()))

	assert.NoError(t, MultiSink{a, b}.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestMultiSink_Empty(t *testing.T) {
	assert.NoError(t, MultiSink(nil).RecordQuote(context.Background(), &models.PriceQuote{}))
}
