package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves GET /healthz.
type HealthHandler struct {
	Store Pinger
	Log   *zap.Logger
}

type healthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Health pings the store with a short deadline and reports "ok" or
// "unavailable".
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	if h.Store != nil {
		if err := h.Store.PingContext(ctx); err != nil {
			if h.Log != nil {
				h.Log.Warn("store ping failed", zap.Error(err))
			}
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Time: now})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Time: now})
}
