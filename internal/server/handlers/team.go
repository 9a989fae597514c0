package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gantryhq/gantry/pkg/types"
)

// GetWorkload returns the team workload distribution, lightest load first.
func (h *Handlers) GetWorkload(w http.ResponseWriter, r *http.Request) {
	entries, err := h.engine.WorkloadDistribution(r.Context(), scope(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to compute workload", err)
		return
	}
	if entries == nil {
		entries = []types.WorkloadEntry{}
	}
	h.writeJSON(w, entries)
}

// GetReassignments returns rebalancing proposals for the team.
func (h *Handlers) GetReassignments(w http.ResponseWriter, r *http.Request) {
	recs, err := h.engine.RecommendReassignments(r.Context(), scope(r))
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "failed to compute reassignments", err)
		return
	}
	if recs == nil {
		recs = []types.ReassignmentRecommendation{}
	}
	h.writeJSON(w, recs)
}

// AssignWorkOrder picks the best technician for an unassigned work order.
// The decision is advisory; persisting the assignment is the caller's job.
func (h *Handlers) AssignWorkOrder(w http.ResponseWriter, r *http.Request) {
	workOrderID := chi.URLParam(r, "workOrderID")
	decision, err := h.engine.AssignBest(r.Context(), workOrderID)
	if err != nil {
		h.writeProviderError(w, "failed to assign work order", err)
		return
	}
	h.writeJSON(w, decision)
}
