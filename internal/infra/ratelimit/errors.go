package ratelimit

import "errors"

var (
	// ErrRedisUnavailable возвращается, когда Redis не отвечает
	ErrRedisUnavailable = errors.New("ratelimit: redis unavailable")

	// ErrInvalidConfig возвращается при некорректных параметрах лимитера
	ErrInvalidConfig = errors.New("ratelimit: invalid config")
)
