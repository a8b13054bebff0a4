package api

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/accounts-api/internal/api/shared"
)

// Pinger checks a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and, when a Pinger is set, store health.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a HealthHandler. store may be nil.
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			w.Header().Set("Retry-After", RetryAfterSeconds)
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
				"store_unavailable", "Service temporarily unavailable", err)
			return
		}
		status["store"] = "ok"
	}
	shared.RespondWithJSON(w, r, http.StatusOK, status)
}
