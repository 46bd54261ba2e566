package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/ratelimit"
)

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (ratelimit.Result, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ratelimit.Result), args.Error(1)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimit_Allowed(t *testing.T) {
	limiter := &mockLimiter{}
	limiter.On("Allow", mock.Anything, "user:user-1").
		Return(ratelimit.Result{Allowed: true, Limit: 10, Remaining: 9}, nil)

	h := RateLimit(limiter, nopLogger{})(okHandler())
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(WithUserID(r.Context(), "user-1"))
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	limiter.AssertExpectations(t)
}

func TestRateLimit_Rejected(t *testing.T) {
	limiter := &mockLimiter{}
	limiter.On("Allow", mock.Anything, "user:user-1").
		Return(ratelimit.Result{Allowed: false, Limit: 10, RetryAfter: 1500 * time.Millisecond}, nil)

	h := RateLimit(limiter, nopLogger{})(okHandler())
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(WithUserID(r.Context(), "user-1"))
	w := httptest.NewRecorder()

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), msgTooManyRequests)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &mockLimiter{}
	limiter.On("Allow", mock.Anything, mock.Anything).
		Return(ratelimit.Result{}, errors.New("redis down"))

	h := RateLimit(limiter, nopLogger{})(okHandler())
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimit_AnonymousKeyedByIP(t *testing.T) {
	limiter := &mockLimiter{}
	limiter.On("Allow", mock.Anything, "ip:192.0.2.1").
		Return(ratelimit.Result{Allowed: true, Limit: 1}, nil)

	h := RateLimit(limiter, nopLogger{})(okHandler())
	w := httptest.NewRecorder()

	// httptest выставляет RemoteAddr 192.0.2.1:1234
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	limiter.AssertExpectations(t)
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	h := RateLimit(nil, nopLogger{})(okHandler())
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
