package httpmiddleware

import (
	"log/slog"
	"net/http"
	"strings"

	"auditengine/internal/jwt_token"
	"auditengine/pkg/requestcontext"
)

// TokenValidator validates a bearer token string.
type TokenValidator interface {
	Validate(tokenString string) (*jwttoken.Claims, error)
}

// RequireAdminAuth rejects any request without a valid Bearer token. If
// validator is nil, admin auth is disabled and every request passes
// through — used when AdminJWTSigningKey is unset for local development.
func RequireAdminAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if validator == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "admin auth: missing bearer token", "request_id", requestID)
				writeUnauthorized(w, "missing or invalid Authorization header")
				return
			}

			if _, err := validator.Validate(token); err != nil {
				logger.WarnContext(ctx, "admin auth: invalid token", "request_id", requestID, "error", err)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
