package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campus-trust-api/internal/infrastructure/token"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// The response body never distinguishes a missing header from a tampered or
// expired token: one generic rejection, no hints about the allow-list.
const notAuthorizedBody = `{"error":"not authorized"}`

// TokenVerifier is the minimal surface the middleware needs from the
// capability-token provider.
type TokenVerifier interface {
	Verify(tokenStr string) (*token.Claims, error)
}

// Auth returns middleware that validates the Bearer capability token and
// injects its claims into the request context. The token is the sole
// authorization artifact; there is no session lookup.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, notAuthorizedBody, http.StatusUnauthorized)
				return
			}
			claims, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				http.Error(w, notAuthorizedBody, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts capability-token claims from the request context.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*token.Claims)
	return c, ok
}

// RequireAdmin allows only requests whose verified claims carry the admin
// capability. The rejection is the same generic message as a bad token.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.IsAdmin {
			http.Error(w, notAuthorizedBody, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
