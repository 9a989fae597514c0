package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetAnalysis returns the full health analysis for one asset.
func (h *Handlers) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")
	analysis, err := h.analyzer.Analyze(r.Context(), assetID)
	if err != nil {
		h.writeProviderError(w, "failed to analyze asset", err)
		return
	}
	h.writeJSON(w, analysis)
}

// GetTrends returns historical trend labels for one asset.
func (h *Handlers) GetTrends(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")
	trends, err := h.orchestrator.AssetTrends(r.Context(), assetID)
	if err != nil {
		h.writeProviderError(w, "failed to compute trends", err)
		return
	}
	h.writeJSON(w, trends)
}

// DraftRequest builds a preventive work-order draft for one asset. With
// ?assign=true the best technician is picked for the draft.
func (h *Handlers) DraftRequest(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetID")
	autoAssign := r.URL.Query().Get("assign") == "true"

	draft, err := h.orchestrator.DraftPreventiveRequest(r.Context(), assetID, autoAssign)
	if err != nil {
		h.writeProviderError(w, "failed to draft request", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, draft)
}
