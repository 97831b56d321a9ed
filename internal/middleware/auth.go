package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/FiorellaChilcon/LIM012-fe-burger-queen-api/internal/token"
)

type contextKey string

const userKey contextKey = "user"

// AuthMiddleware выполняет проверку аутентификации по JWT-токену из
// заголовка Authorization.
type AuthMiddleware struct {
	issuer *token.Issuer
}

// NewAuthMiddleware создаёт AuthMiddleware поверх указанного эмитента токенов.
func NewAuthMiddleware(issuer *token.Issuer) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer}
}

// Middleware проверяет токен запроса и добавляет claims пользователя в контекст.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		raw = strings.TrimPrefix(raw, "Bearer ")

		claims, err := a.issuer.Parse(raw)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin пропускает запрос дальше только для администратора.
// Навешивается после Middleware.
func (a *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		if !claims.Admin {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext извлекает claims пользователя из контекста запроса.
func GetUserFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(userKey).(*token.Claims)
	return claims, ok
}
