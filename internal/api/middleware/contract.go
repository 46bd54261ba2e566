package middleware

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/ratelimit"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RateLimiter решает, пропускать ли очередной запрос по ключу
type RateLimiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

// HTTPMetrics метрики HTTP запросов
type HTTPMetrics interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}
