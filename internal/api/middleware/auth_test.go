package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// echoUserID отвечает ID пользователя из контекста
func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(userID))
	})
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestHeaderAuth(t *testing.T) {
	h := HeaderAuth("", nopLogger{})(echoUserID())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(DefaultUserIDHeader, "user-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth(t *testing.T) {
	h := JWTAuth(testSecret, nopLogger{})(echoUserID())
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{
			name:       "userId claim",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"userId": "u-1", "exp": exp}),
			wantStatus: http.StatusOK,
			wantUser:   "u-1",
		},
		{
			name:       "sub claim",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "u-2", "exp": exp}),
			wantStatus: http.StatusOK,
			wantUser:   "u-2",
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"userId": "u-1", "exp": exp}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"userId": "u-1", "exp": time.Now().Add(-time.Hour).Unix()}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "other hmac algorithm",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"userId": "u-1", "exp": exp}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no user claim",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"exp": exp}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage",
			header:     "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantUser != "" {
				assert.Equal(t, tt.wantUser, w.Body.String())
			}
		})
	}
}

func TestNewAuth(t *testing.T) {
	_, err := NewAuth("header", "", "", nopLogger{})
	assert.NoError(t, err)

	_, err = NewAuth("jwt", testSecret, "", nopLogger{})
	assert.NoError(t, err)

	_, err = NewAuth("jwt", "", "", nopLogger{})
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewAuth("basic", "", "", nopLogger{})
	assert.ErrorIs(t, err, ErrUnknownAuthMode)
}
