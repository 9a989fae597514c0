// Package handlers implements HTTP request handlers for the gantry API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gantryhq/gantry/internal/analyzer"
	"github.com/gantryhq/gantry/internal/assignment"
	"github.com/gantryhq/gantry/internal/orchestrator"
	"github.com/gantryhq/gantry/internal/provider"
)

// Handlers contains all HTTP handler dependencies.
type Handlers struct {
	analyzer     *analyzer.Analyzer
	engine       *assignment.Engine
	orchestrator *orchestrator.Orchestrator
	source       provider.Source
	logger       *slog.Logger
}

// New creates a new Handlers instance.
func New(an *analyzer.Analyzer, eng *assignment.Engine, orch *orchestrator.Orchestrator, src provider.Source) *Handlers {
	return &Handlers{
		analyzer:     an,
		engine:       eng,
		orchestrator: orch,
		source:       src,
		logger:       slog.Default(),
	}
}

// SetLogger overrides the default logger.
func (h *Handlers) SetLogger(l *slog.Logger) {
	if l != nil {
		h.logger = l
	}
}

// scope returns the optional tenant scope query parameter.
func scope(r *http.Request) string {
	return r.URL.Query().Get("scope")
}

// writeJSON encodes the response body.
func (h *Handlers) writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

// writeError logs the internal error and returns a sanitized JSON error to
// the client.
func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		h.logger.Error(msg, "error", err, "status", status)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeProviderError maps sentinel provider errors to HTTP statuses.
func (h *Handlers) writeProviderError(w http.ResponseWriter, msg string, err error) {
	switch {
	case provider.IsNotFound(err):
		h.writeError(w, http.StatusNotFound, msg, err)
	case provider.IsConflict(err):
		h.writeError(w, http.StatusConflict, msg, err)
	default:
		h.writeError(w, http.StatusInternalServerError, msg, err)
	}
}
