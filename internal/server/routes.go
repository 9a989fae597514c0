package server

import (
	"github.com/go-chi/chi/v5"

	"github.com/gantryhq/gantry/internal/server/handlers"
)

func (s *Server) registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Route("/api", func(r chi.Router) {
		// Health
		r.Get("/health", h.Health)

		// Per-asset analysis
		r.Get("/assets/{assetID}/analysis", h.GetAnalysis)
		r.Get("/assets/{assetID}/trends", h.GetTrends)
		r.Post("/assets/{assetID}/draft", h.DraftRequest)

		// Fleet
		r.Get("/fleet", h.ListFleet)
		r.Get("/fleet/high-risk", h.ListHighRisk)
		r.Get("/fleet/schedule", h.GetSchedule)
		r.Get("/fleet/dashboard", h.GetDashboard)
		r.Get("/fleet/overview", h.GetOverview)

		// Team
		r.Get("/team/workload", h.GetWorkload)
		r.Get("/team/reassignments", h.GetReassignments)

		// Assignment
		r.Post("/workorders/{workOrderID}/assign", h.AssignWorkOrder)

		// Insights
		r.Get("/insights", h.GetInsights)
	})
}
