package handlers

import (
	"net/http"
)

// Health handles GET /healthz. It reports ok only when the store answers.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
		})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
