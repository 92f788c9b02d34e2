package handler

import (
	"net/http"
	"time"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:    StatusHealthy,
		Version:   h.version,
		Uptime:    now.Sub(h.startTime).Seconds(),
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	})
}
