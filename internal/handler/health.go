package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"arbor/internal/httputil"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	store   Pinger
	backend string
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler. store may be nil when the
// backend has nothing to ping.
func NewHealthHandler(store Pinger, backend string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, backend: backend, logger: logger}
}

// HealthCheck reports service and store status
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", "backend", h.backend, "error", err)
			httputil.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "unavailable",
				"backend": h.backend,
				"time":    time.Now().UTC(),
			})
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"backend": h.backend,
		"time":    time.Now().UTC(),
	})
}
