package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

// Режимы получения идентификатора пользователя
const (
	AuthModeHeader = "header" // доверенный заголовок от gateway
	AuthModeJWT    = "jwt"    // Bearer токен HS256

	DefaultUserIDHeader = "X-User-ID"
)

const (
	msgMissingIdentity = "требуется авторизация"
	msgInvalidToken    = "недействительный токен"
)

var (
	// ErrUnknownAuthMode возвращается при неизвестном режиме авторизации
	ErrUnknownAuthMode = errors.New("middleware: unknown auth mode")

	// ErrMissingSecret возвращается, когда для jwt режима не задан секрет
	ErrMissingSecret = errors.New("middleware: jwt secret is required")

	errNoUserClaim = errors.New("token has no userId or sub claim")
)

type userIDKey struct{}

// WithUserID кладет проверенный ID пользователя в контекст
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID достает ID пользователя из контекста
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}

// NewAuth возвращает middleware авторизации для выбранного режима
func NewAuth(mode, jwtSecret, userIDHeader string, logger Logger) (func(http.Handler) http.Handler, error) {
	switch strings.ToLower(mode) {
	case AuthModeHeader, "":
		return HeaderAuth(userIDHeader, logger), nil
	case AuthModeJWT:
		if jwtSecret == "" {
			return nil, ErrMissingSecret
		}
		return JWTAuth(jwtSecret, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthMode, mode)
	}
}

// HeaderAuth берет ID пользователя из доверенного заголовка
func HeaderAuth(header string, logger Logger) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultUserIDHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(header))
			if userID == "" {
				logger.Warn("%s %s - Missing %s header", r.Method, r.URL.Path, header)
				handlers.RespondUnauthorized(w, msgMissingIdentity)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// JWTAuth проверяет Bearer токен и берет ID пользователя из claim userId или sub
func JWTAuth(secret string, logger Logger) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				logger.Warn("%s %s - Missing bearer token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingIdentity)
				return
			}

			userID, err := parseUserID(strings.TrimPrefix(auth, "Bearer "), key)
			if err != nil {
				logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func parseUserID(raw string, key []byte) (string, error) {
	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	if userID, ok := claims["userId"].(string); ok && userID != "" {
		return userID, nil
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errNoUserClaim
	}

	return sub, nil
}
