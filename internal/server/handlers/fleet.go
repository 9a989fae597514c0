package handlers

import (
	"net/http"
	"strconv"

	"github.com/gantryhq/gantry/pkg/types"
)

// ListFleet returns the full fleet analysis, sorted descending by risk.
func (h *Handlers) ListFleet(w http.ResponseWriter, r *http.Request) {
	analyses, err := h.analyzer.AnalyzeFleet(r.Context(), scope(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to analyze fleet", err)
		return
	}
	if analyses == nil {
		analyses = []types.HealthAnalysis{}
	}
	h.writeJSON(w, analyses)
}

// ListHighRisk returns the fleet analyses at or above the risk threshold.
// The threshold query parameter overrides the default.
func (h *Handlers) ListHighRisk(w http.ResponseWriter, r *http.Request) {
	var threshold float64
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 || v > 1 {
			h.writeError(w, http.StatusBadRequest, "threshold must be in (0,1]", err)
			return
		}
		threshold = v
	}

	analyses, err := h.analyzer.HighRisk(r.Context(), scope(r), threshold)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to analyze fleet", err)
		return
	}
	if analyses == nil {
		analyses = []types.HealthAnalysis{}
	}
	h.writeJSON(w, analyses)
}

// GetSchedule returns the predicted maintenance calendar. The days query
// parameter overrides the default window.
func (h *Handlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	var days int
	if raw := r.URL.Query().Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			h.writeError(w, http.StatusBadRequest, "days must be a positive integer", err)
			return
		}
		days = v
	}

	items, err := h.analyzer.Schedule(r.Context(), scope(r), days)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to build schedule", err)
		return
	}
	if items == nil {
		items = []types.ScheduleItem{}
	}
	h.writeJSON(w, items)
}

// GetDashboard returns the aggregated fleet dashboard.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analyzer.DashboardSummary(r.Context(), scope(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to build dashboard", err)
		return
	}
	h.writeJSON(w, summary)
}

// GetOverview returns the combined fleet, workload, and schedule overview.
func (h *Handlers) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.orchestrator.FleetOverview(r.Context(), scope(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to build overview", err)
		return
	}
	h.writeJSON(w, overview)
}

// GetInsights returns the decision-support bundle.
func (h *Handlers) GetInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.orchestrator.Insights(r.Context(), scope(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to build insights", err)
		return
	}
	h.writeJSON(w, insights)
}
