package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Счетчик окна увеличивается и получает TTL атомарно
var fixedWindowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// Result решение лимитера по одному запросу
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter ограничитель с фиксированным окном на Redis
// Ключ окна: <prefix>:<key>:<номер окна>
type Limiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewLimiter создает лимитер: не более limit запросов на ключ за window
func NewLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) (*Limiter, error) {
	if rdb == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrInvalidConfig)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidConfig, limit)
	}
	if window < time.Second {
		return nil, fmt.Errorf("%w: window must be at least 1s, got %s", ErrInvalidConfig, window)
	}
	if prefix == "" {
		prefix = "rl"
	}

	return &Limiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

// Allow учитывает запрос по ключу и решает, пропускать ли его
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	windowIndex := now.UnixNano() / int64(l.window)
	windowEnd := time.Unix(0, (windowIndex+1)*int64(l.window))

	redisKey := l.prefix + ":" + key + ":" + strconv.FormatInt(windowIndex, 10)

	reply, err := fixedWindowScript.Run(ctx, l.rdb, []string{redisKey}, l.window.Milliseconds()).Int64()
	if err != nil {
		return Result{}, fmt.Errorf("%w: key %s: %v", ErrRedisUnavailable, redisKey, err)
	}

	res := Result{
		Allowed: reply <= int64(l.limit),
		Limit:   l.limit,
	}
	if remaining := int64(l.limit) - reply; remaining > 0 {
		res.Remaining = int(remaining)
	}
	if !res.Allowed {
		res.RetryAfter = windowEnd.Sub(now)
	}

	return res, nil
}
