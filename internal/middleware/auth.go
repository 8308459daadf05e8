package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"taskflow/internal/logger"
	"taskflow/internal/models/user"
	"taskflow/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const userKey contextKey = "auth_user"

type tokenClaims struct {
	jwt.RegisteredClaims
}

// UserLoader отдаёт пользователя по идентификатору из токена.
type UserLoader interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Auth проверяет Bearer-токен и кладёт пользователя в контекст запроса.
func Auth(secret string, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w, r, "отсутствует токен авторизации")
				return
			}

			claims := &tokenClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				unauthorized(w, r, "недействительный токен")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				unauthorized(w, r, "недействительный токен")
				return
			}

			authUser, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				unauthorized(w, r, "пользователь не найден")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), authUser)))
		})
	}
}

// WithUser кладёт пользователя в контекст. Снаружи нужен тестам handler-ов
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext возвращает аутентифицированного пользователя или nil.
func UserFromContext(ctx context.Context) *user.User {
	if u, ok := ctx.Value(userKey).(*user.User); ok {
		return u
	}
	return nil
}

// IssueToken подписывает HS256-токен для пользователя. Используется
// dev-сидером и тестами, отдельного маршрута логина у сервиса нет.
func IssueToken(secret string, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	logger.Warn("HTTP: Отказ в авторизации",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.String("reason", reason))

	// тот же конверт, что у бизнес-ошибок на уровне handlers
	bErr := service.NewUnauthorized(reason)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error":   bErr.Code,
		"message": bErr.Message,
		"details": bErr.Details,
	})
}
