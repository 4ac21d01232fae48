package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/campus-tutoring/helpqueue/internal/domain/identity"
)

type identityKey struct{}

// IdentityVerifier resolves a trusted identity from a bearer token.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (identity.Identity, error)
}

// IdentityFromContext returns the resolved identity from context, if present.
func IdentityFromContext(ctx context.Context) (identity.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(identity.Identity)
	return ident, ok
}

// AuthMiddleware enforces bearer token authentication. Every failure mode
// (missing header, bad signature, expired token, deleted account) gets the
// same response body.
func AuthMiddleware(verifier IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "No token provided")
				return
			}

			ident, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
