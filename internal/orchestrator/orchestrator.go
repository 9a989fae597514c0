// Package orchestrator composes the analyzer and the assignment engine into
// the decision-support operations: fleet overviews, insight bundles, and
// preventive work-order drafts.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/gantryhq/gantry/internal/analyzer"
	"github.com/gantryhq/gantry/internal/assignment"
	"github.com/gantryhq/gantry/internal/audit"
	"github.com/gantryhq/gantry/internal/metrics"
	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/pkg/types"
)

const topRiskCount = 5

// Orchestrator bundles the analysis and assignment engines.
type Orchestrator struct {
	analyzer  *analyzer.Analyzer
	engine    *assignment.Engine
	assets    provider.AssetSource
	observers audit.Observers
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObservers attaches audit observers.
func WithObservers(obs audit.Observers) Option {
	return func(o *Orchestrator) { o.observers = obs }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an Orchestrator.
func New(an *analyzer.Analyzer, eng *assignment.Engine, assets provider.AssetSource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		analyzer: an,
		engine:   eng,
		assets:   assets,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FleetOverview runs one fleet sweep and combines it with the team workload
// and the near-term maintenance schedule.
func (o *Orchestrator) FleetOverview(ctx context.Context, scope string) (*types.FleetOverview, error) {
	analyses, err := o.analyzer.AnalyzeFleet(ctx, scope)
	if err != nil {
		return nil, err
	}
	workload, err := o.engine.WorkloadDistribution(ctx, scope)
	if err != nil {
		return nil, err
	}

	now := o.now()
	return &types.FleetOverview{
		GeneratedAt: now,
		Dashboard:   *analyzer.BuildDashboard(analyses, now),
		Fleet:       analyses,
		Workload:    workload,
		Schedule:    analyzer.BuildSchedule(analyses, now, analyzer.DefaultScheduleDaysAhead),
	}, nil
}

// Insights produces the decision-support bundle: dashboard, fleet-level
// recommendations and alerts, top risks, the calendar grouped by month, and
// the team capacity summary.
func (o *Orchestrator) Insights(ctx context.Context, scope string) (*types.Insights, error) {
	analyses, err := o.analyzer.AnalyzeFleet(ctx, scope)
	if err != nil {
		return nil, err
	}
	workload, err := o.engine.WorkloadDistribution(ctx, scope)
	if err != nil {
		return nil, err
	}

	now := o.now()
	dashboard := analyzer.BuildDashboard(analyses, now)
	schedule := analyzer.BuildSchedule(analyses, now, analyzer.DefaultScheduleDaysAhead)

	top := analyses
	if len(top) > topRiskCount {
		top = top[:topRiskCount]
	}

	// Trend labels for the assets that made the top-risk list. A failing
	// trend lookup drops the label, never the bundle.
	trends := make(map[string]types.AssetTrends, len(top))
	for _, a := range top {
		tr, err := o.AssetTrends(ctx, a.Asset.ID)
		if err != nil {
			o.logger.Warn("trend lookup failed", "assetId", a.Asset.ID, "error", err)
			continue
		}
		trends[a.Asset.ID] = *tr
	}

	calendar := make(map[string][]types.ScheduleItem)
	for _, item := range schedule {
		key := item.Date.Format("2006-01-02")
		calendar[key] = append(calendar[key], item)
	}

	return &types.Insights{
		GeneratedAt:     now,
		Dashboard:       *dashboard,
		Recommendations: fleetRecommendations(dashboard, workload),
		Alerts:          fleetAlerts(analyses),
		TopRisks:        top,
		Trends:          trends,
		Calendar:        calendar,
		Workload:        workloadStatus(workload),
	}, nil
}

// DraftPreventiveRequest builds a preventive work-order draft from a fresh
// analysis. With autoAssign, the best technician is picked for the draft; the
// draft is never persisted by the core.
func (o *Orchestrator) DraftPreventiveRequest(ctx context.Context, assetID string, autoAssign bool) (*types.DraftRequest, error) {
	analysis, err := o.analyzer.Analyze(ctx, assetID)
	if err != nil {
		return nil, err
	}

	now := o.now()
	draft := &types.DraftRequest{
		ID:      ulid.Make().String(),
		AssetID: assetID,
		Title:   fmt.Sprintf("Preventive maintenance: %s", analysis.Asset.Name),
		Description: fmt.Sprintf("%s %s Current health score: %.0f/100.",
			analysis.Prediction.Reasoning, analysis.Prediction.RecommendedAction, analysis.HealthScore),
		Priority:  draftPriority(analysis.Prediction.RiskScore),
		CreatedAt: now,
	}

	if autoAssign {
		decision, err := o.engine.BestFor(ctx, types.WorkOrder{
			ID:        draft.ID,
			AssetID:   assetID,
			Title:     draft.Title,
			Priority:  draft.Priority,
			CreatedAt: now,
			Scope:     analysis.Asset.Scope,
		})
		if err != nil {
			return nil, err
		}
		draft.Assignment = decision
	}

	metrics.DraftsCreated.Add(1)
	o.observers.Emit(ctx, types.Event{
		Kind:      types.EventDraftRequestCreated,
		AssetID:   assetID,
		OrderID:   draft.ID,
		Message:   draft.Title,
		Timestamp: now,
	})
	return draft, nil
}

// draftPriority maps risk score to draft priority.
func draftPriority(score float64) types.Priority {
	switch {
	case score >= 0.8:
		return types.PriorityHigh
	case score >= 0.5:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

func fleetRecommendations(dashboard *types.DashboardSummary, workload []types.WorkloadEntry) []string {
	var recs []string

	if n := dashboard.CriticalRisk; n > 0 {
		recs = append(recs, fmt.Sprintf("%d assets at critical failure risk; schedule immediate maintenance.", n))
	}
	if n := dashboard.HighRisk; n > 0 {
		recs = append(recs, fmt.Sprintf("%d assets at high failure risk; plan maintenance within 7 days.", n))
	}
	if dashboard.TotalAssets > 0 && dashboard.AverageHealth < 60 {
		recs = append(recs, fmt.Sprintf("Fleet average health is %.0f/100; review the maintenance program.", dashboard.AverageHealth))
	}
	if n := dashboard.DueWithin30Days; n > 0 {
		recs = append(recs, fmt.Sprintf("%d assets are predicted to need maintenance within 30 days.", n))
	}

	var overloaded int
	for _, entry := range workload {
		if entry.Tier == types.WorkloadOverloaded {
			overloaded++
		}
	}
	if overloaded > 0 {
		recs = append(recs, fmt.Sprintf("%d technicians are overloaded; rebalance open work orders.", overloaded))
	}

	if len(recs) == 0 {
		recs = append(recs, "Fleet is healthy; continue routine monitoring.")
	}
	return recs
}

func fleetAlerts(analyses []types.HealthAnalysis) []string {
	var alerts []string
	for _, an := range analyses {
		if an.Prediction.RiskScore >= 0.8 {
			alerts = append(alerts, fmt.Sprintf("%s (%s): risk %.2f, %s",
				an.Asset.Name, an.Asset.ID, an.Prediction.RiskScore, an.Prediction.RecommendedAction))
		}
	}
	return alerts
}

func workloadStatus(workload []types.WorkloadEntry) types.WorkloadStatus {
	status := types.WorkloadStatus{Technicians: len(workload)}
	for _, entry := range workload {
		switch entry.Tier {
		case types.WorkloadAvailable, types.WorkloadLight:
			status.Available++
		case types.WorkloadOverloaded:
			status.Overloaded++
		}
	}
	status.Summary = fmt.Sprintf("%d technicians: %d with capacity, %d overloaded.",
		status.Technicians, status.Available, status.Overloaded)
	return status
}
