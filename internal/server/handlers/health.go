package handlers

import (
	"net/http"
)

// Health returns the server health status. The provider is pinged so a dead
// backend shows up as degraded rather than a hard failure.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := h.source.Ping(r.Context()); err != nil {
		status = "degraded"
	}
	h.writeJSON(w, map[string]string{"status": status})
}
