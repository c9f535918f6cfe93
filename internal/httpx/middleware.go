package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/kelvinsinsua/scalaya-backend/internal/auth"
)

type ctxKey int

const claimsKey ctxKey = iota

// RequireAuth rejects requests without a valid bearer token for the
// given realm and stashes the claims in the request context.
func RequireAuth(j *auth.JWT, realm auth.Realm) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := j.Verify(token, realm)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// ClaimsFrom returns the verified claims, or nil outside RequireAuth.
func ClaimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
