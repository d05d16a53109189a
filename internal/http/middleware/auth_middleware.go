package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/carefleet/carefleet-backend/internal/http/response"
	"github.com/carefleet/carefleet-backend/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "auth.claims"

// ClaimsFromContext returns the access-token claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*security.Claims)
	return claims, ok
}

// Authenticate requires a valid bearer access token and stores its claims
// in the request context.
func Authenticate(jwtMgr *security.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header", nil)
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed authorization header", nil)
				return
			}

			claims, err := jwtMgr.ParseAccessToken(token)
			if err != nil {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithClaims returns a context carrying the given claims. Test helper.
func WithClaims(ctx context.Context, claims *security.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
