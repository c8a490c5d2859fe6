// Package adminapi exposes the small operational HTTP surface the
// ingestion engine's own producer/consumer API does not: health,
// Prometheus metrics, and a manual retention-sweep trigger. It is
// intentionally separate from (and unaware of) whatever transport a
// caller uses to submit audit records.
package adminapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"auditengine/internal/platform/httpmiddleware"
	"auditengine/pkg/audit"
)

// Sweeper is the subset of *audit.Sweeper the admin API needs.
type Sweeper interface {
	Sweep(ctx context.Context)
}

// Handler serves the admin API endpoints.
type Handler struct {
	sweeper Sweeper
	logger  *slog.Logger
}

// New builds a Handler.
func New(sweeper *audit.Sweeper, logger *slog.Logger) *Handler {
	return &Handler{sweeper: sweeper, logger: logger}
}

// Router builds the chi router for the admin API. validator may be nil to
// disable auth on the sweep endpoint (health and metrics are always
// unauthenticated so orchestrators can probe them).
func (h *Handler) Router(validator httpmiddleware.TokenValidator) http.Handler {
	r := chi.NewRouter()
	r.Use(httpmiddleware.RequestID)

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.RequireAdminAuth(validator, h.logger))
		r.Post("/admin/sweep", h.handleSweep)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) handleSweep(w http.ResponseWriter, r *http.Request) {
	h.sweeper.Sweep(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"status":"sweep triggered"}`))
}
