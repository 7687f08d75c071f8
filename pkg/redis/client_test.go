package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCmdable struct {
	setNXResult bool
	setNXErr    error
	getResult   string
	getErr      error
	delErr      error
	pingErr     error

	lastKey string
	lastTTL time.Duration
}

func (m *mockCmdable) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	cmd.SetErr(m.pingErr)
	return cmd
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd {
	m.lastKey = key
	m.lastTTL = expiration
	return goredis.NewStatusCmd(ctx)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *goredis.BoolCmd {
	m.lastKey = key
	m.lastTTL = expiration
	cmd := goredis.NewBoolCmd(ctx)
	cmd.SetVal(m.setNXResult)
	cmd.SetErr(m.setNXErr)
	return cmd
}

func (m *mockCmdable) Get(ctx context.Context, key string) *goredis.StringCmd {
	m.lastKey = key
	cmd := goredis.NewStringCmd(ctx)
	cmd.SetVal(m.getResult)
	cmd.SetErr(m.getErr)
	return cmd
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	cmd := goredis.NewIntCmd(ctx)
	cmd.SetErr(m.delErr)
	return cmd
}

func (m *mockCmdable) Close() error { return nil }

func TestIdempotencyKey(t *testing.T) {
	key := IdempotencyKey("payment", "PAY-20260101-ABCDEF01")
	assert.Equal(t, "vs:idempotency:payment:PAY-20260101-ABCDEF01", key)
}

func TestSetNX(t *testing.T) {
	t.Run("first write wins", func(t *testing.T) {
		mock := &mockCmdable{setNXResult: true}
		c := &Client{rdb: mock}

		ok, err := c.SetNX(context.Background(), "vs:test", "1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "vs:test", mock.lastKey)
		assert.Equal(t, time.Minute, mock.lastTTL)
	})

	t.Run("duplicate returns false", func(t *testing.T) {
		mock := &mockCmdable{setNXResult: false}
		c := &Client{rdb: mock}

		ok, err := c.SetNX(context.Background(), "vs:test", "1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("error surfaces", func(t *testing.T) {
		mock := &mockCmdable{setNXErr: errors.New("connection refused")}
		c := &Client{rdb: mock}

		_, err := c.SetNX(context.Background(), "vs:test", "1", time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis setnx")
	})
}

func TestGet(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		mock := &mockCmdable{getResult: "paid"}
		c := &Client{rdb: mock}

		val, err := c.Get(context.Background(), "vs:test")
		require.NoError(t, err)
		assert.Equal(t, "paid", val)
	})

	t.Run("miss is not an error", func(t *testing.T) {
		mock := &mockCmdable{getErr: goredis.Nil}
		c := &Client{rdb: mock}

		val, err := c.Get(context.Background(), "vs:test")
		require.NoError(t, err)
		assert.Empty(t, val)
	})
}
