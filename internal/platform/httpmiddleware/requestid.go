// Package httpmiddleware provides the small set of net/http middlewares
// the admin API needs: request-id propagation and admin bearer auth.
package httpmiddleware

import (
	"net/http"

	"github.com/google/uuid"

	"auditengine/pkg/requestcontext"
)

// RequestID assigns a request ID (from the X-Request-Id header if present,
// otherwise a fresh uuid) and stores it in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
