package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const msgTooManyRequests = "слишком много запросов, попробуйте позже"

// RateLimit ограничивает частоту запросов на пользователя
// Должен стоять после авторизации; без ID пользователя ключом служит IP
// Если лимитер недоступен, запрос пропускается
func RateLimit(limiter RateLimiter, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateKey(r)

			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("%s %s - Rate limiter unavailable, request allowed: %v", r.Method, r.URL.Path, err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				logger.Warn("%s %s - Rate limit exceeded: key=%s", r.Method, r.URL.Path, key)
				handlers.RespondTooManyRequests(w, msgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateKey(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + userID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
