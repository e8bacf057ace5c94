package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"go-shop/apperrors"
	"go-shop/httputil"
	"go-shop/models"
	"go-shop/utils"
)

type contextKey string

const userContextKey = contextKey("user")

// ClaimsFromContext returns the authenticated user's claims, if any.
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(userContextKey).(*utils.Claims)
	return claims, ok
}

// Auth verifies the Bearer token and attaches the user's claims to the
// request context.
func Auth(secret []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("authorization header missing"), logger)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid authorization header format"), logger)
				return
			}

			claims, err := utils.ParseJWT(secret, parts[1])
			if err != nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired token"), logger)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects requests from users without the admin role. It must
// run after Auth.
func AdminOnly(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Role != models.RoleAdmin {
				httputil.WriteError(w, r, apperrors.Forbidden("admin access required"), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
