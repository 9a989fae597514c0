package analyzer

import (
	"context"
	"sort"
	"time"

	"github.com/gantryhq/gantry/pkg/types"
)

// Schedule derives the predicted maintenance calendar for the next daysAhead
// days, sorted ascending by date. Overdue predictions (dates in the past)
// are included with a negative DaysUntil.
func (a *Analyzer) Schedule(ctx context.Context, scope string, daysAhead int) ([]types.ScheduleItem, error) {
	analyses, err := a.AnalyzeFleet(ctx, scope)
	if err != nil {
		return nil, err
	}
	return BuildSchedule(analyses, a.now(), daysAhead), nil
}

// BuildSchedule derives the maintenance calendar from an existing fleet
// analysis, so callers holding one avoid a second sweep.
func BuildSchedule(analyses []types.HealthAnalysis, now time.Time, daysAhead int) []types.ScheduleItem {
	if daysAhead <= 0 {
		daysAhead = DefaultScheduleDaysAhead
	}
	cutoff := now.AddDate(0, 0, daysAhead)

	var items []types.ScheduleItem
	for _, an := range analyses {
		date := an.Prediction.PredictedFailureDate
		if date == nil || date.After(cutoff) {
			continue
		}
		items = append(items, types.ScheduleItem{
			AssetID:   an.Asset.ID,
			AssetName: an.Asset.Name,
			Location:  an.Asset.Location,
			Date:      *date,
			RiskScore: an.Prediction.RiskScore,
			Priority:  priorityForRisk(an.Prediction.RiskScore),
			Action:    an.Prediction.RecommendedAction,
			Reasoning: an.Prediction.Reasoning,
			DaysUntil: int(date.Sub(now).Hours() / 24),
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	return items
}

// DashboardSummary aggregates the fleet analysis into risk-tier counts, the
// average health score, the due-soon count, and a health histogram.
func (a *Analyzer) DashboardSummary(ctx context.Context, scope string) (*types.DashboardSummary, error) {
	analyses, err := a.AnalyzeFleet(ctx, scope)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(analyses, a.now()), nil
}

// BuildDashboard aggregates an existing fleet analysis into the dashboard
// summary.
func BuildDashboard(analyses []types.HealthAnalysis, now time.Time) *types.DashboardSummary {
	dueCutoff := now.AddDate(0, 0, 30)

	summary := &types.DashboardSummary{TotalAssets: len(analyses)}
	var healthTotal float64

	for _, an := range analyses {
		switch types.RiskTierFor(an.Prediction.RiskScore) {
		case types.RiskCritical:
			summary.CriticalRisk++
		case types.RiskHigh:
			summary.HighRisk++
		case types.RiskMedium:
			summary.MediumRisk++
		default:
			summary.LowRisk++
		}

		healthTotal += an.HealthScore
		switch types.HealthBandFor(an.HealthScore) {
		case types.HealthExcellent:
			summary.Histogram.Excellent++
		case types.HealthGood:
			summary.Histogram.Good++
		case types.HealthFair:
			summary.Histogram.Fair++
		case types.HealthPoor:
			summary.Histogram.Poor++
		default:
			summary.Histogram.Critical++
		}

		if d := an.Prediction.PredictedFailureDate; d != nil && d.Before(dueCutoff) {
			summary.DueWithin30Days++
		}
	}

	if len(analyses) > 0 {
		summary.AverageHealth = healthTotal / float64(len(analyses))
	}
	return summary
}

// priorityForRisk maps a risk score to a work priority tier.
func priorityForRisk(score float64) types.Priority {
	switch {
	case score >= 0.8:
		return types.PriorityUrgent
	case score >= 0.6:
		return types.PriorityHigh
	case score >= 0.4:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}
