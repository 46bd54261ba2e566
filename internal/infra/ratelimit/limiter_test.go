package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	l, err := NewLimiter(rdb, limit, window, "test")
	require.NoError(t, err)

	return l, mr
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	base := time.Date(2025, 1, 10, 9, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return base }

	for i := 0; i < 3; i++ {
		res, err := l.Allow(context.Background(), "user-1")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := l.Allow(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
	assert.Equal(t, 50*time.Second, res.RetryAfter)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	res, err := l.Allow(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Allow(context.Background(), "user-2")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Allow(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestLimiter_NextWindowResets(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	res, err := l.Allow(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	now = now.Add(time.Minute)

	res, err = l.Allow(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestLimiter_SetsExpiry(t *testing.T) {
	l, mr := newTestLimiter(t, 5, time.Minute)
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	_, err := l.Allow(context.Background(), "user-1")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))

	mr.FastForward(time.Minute + time.Second)
	assert.Empty(t, mr.Keys())
}

func TestLimiter_RedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 5, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "user-1")

	assert.ErrorIs(t, err, ErrRedisUnavailable)
}

func TestNewLimiter_InvalidConfig(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	_, err := NewLimiter(rdb, 0, time.Minute, "")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewLimiter(rdb, 1, time.Millisecond, "")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewLimiter(nil, 1, time.Minute, "")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewRedisClient(context.Background(), addr, "", 0)
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), addr, "", 0)
	assert.ErrorIs(t, err, ErrRedisUnavailable)
}
