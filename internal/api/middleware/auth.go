package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/auth"
)

const claimsKey contextKey = "claims"

// TokenVerifier validates a bearer token. Implemented by service.AuthService.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token. A missing token
// is 401, an invalid or expired one is 403. The claims are stored on the
// request context for GetClaims.
func RequireAuth(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				deny(w, http.StatusUnauthorized, "Access token required")
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("rejected bearer token",
					zap.String("correlation_id", GetCorrelationID(r.Context())),
					zap.Error(err),
				)
				deny(w, http.StatusForbidden, "Invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims returns the claims stored by RequireAuth, or nil.
func GetClaims(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}
