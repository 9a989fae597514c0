package analyzer

import (
	"time"

	"github.com/gantryhq/gantry/pkg/types"
)

// summarize aggregates maintenance history over trailing windows.
func summarize(history []types.MaintenanceEvent, now time.Time) types.MaintenanceSummary {
	summary := types.MaintenanceSummary{TotalEvents: len(history)}

	cutoff30 := now.AddDate(0, 0, -30)
	cutoff90 := now.AddDate(0, 0, -90)

	var resolutionDays float64
	var completed int

	for _, e := range history {
		if !e.CreatedAt.Before(cutoff30) {
			summary.Last30Days++
		}
		if !e.CreatedAt.Before(cutoff90) {
			summary.Last90Days++
		}
		if e.CompletedAt != nil {
			resolutionDays += e.CompletedAt.Sub(e.CreatedAt).Hours() / 24
			completed++
		}
		if summary.LastEventAt == nil || e.CreatedAt.After(*summary.LastEventAt) {
			t := e.CreatedAt
			summary.LastEventAt = &t
		}
	}

	if completed > 0 {
		summary.AvgResolutionDays = resolutionDays / float64(completed)
	}
	return summary
}
