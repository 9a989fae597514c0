// Package analyzer implements per-asset and fleet-wide health analysis.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gantryhq/gantry/internal/audit"
	"github.com/gantryhq/gantry/internal/health"
	"github.com/gantryhq/gantry/internal/metrics"
	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/internal/risk"
	"github.com/gantryhq/gantry/pkg/types"
)

// Defaults for fleet-wide operations.
const (
	DefaultHighRiskThreshold = 0.6
	DefaultScheduleDaysAhead = 30
	defaultParallelism       = 8
)

// AlertFunc receives alerts raised during analysis.
type AlertFunc func(ctx context.Context, alert types.Alert)

// Analyzer analyzes assets end-to-end: health score, failure prediction,
// history summary, and recommendations.
type Analyzer struct {
	assets      provider.AssetSource
	strategy    risk.Strategy
	scorer      *health.Scorer
	alertFn     AlertFunc
	observers   audit.Observers
	logger      *slog.Logger
	now         func() time.Time
	parallelism int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithObservers attaches audit observers.
func WithObservers(obs audit.Observers) Option {
	return func(a *Analyzer) { a.observers = obs }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithParallelism bounds the fleet fan-out.
func WithParallelism(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.parallelism = n
		}
	}
}

// New creates an Analyzer.
func New(assets provider.AssetSource, strategy risk.Strategy, scorer *health.Scorer, alertFn AlertFunc, opts ...Option) *Analyzer {
	a := &Analyzer{
		assets:      assets,
		strategy:    strategy,
		scorer:      scorer,
		alertFn:     alertFn,
		logger:      slog.Default(),
		now:         time.Now,
		parallelism: defaultParallelism,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze performs the full analysis for one asset. Unknown assets fail with
// provider.ErrNotFound.
func (a *Analyzer) Analyze(ctx context.Context, assetID string) (*types.HealthAnalysis, error) {
	asset, err := a.assets.GetAsset(ctx, assetID)
	if err != nil {
		metrics.AnalysisErrors.Add(1)
		return nil, fmt.Errorf("loading asset %q: %w", assetID, err)
	}
	history, err := a.assets.GetHistory(ctx, assetID)
	if err != nil {
		metrics.AnalysisErrors.Add(1)
		return nil, fmt.Errorf("loading history for %q: %w", assetID, err)
	}

	now := a.now()
	prediction := a.strategy.Predict(*asset, history, now)
	score := a.scorer.Score(*asset, history, now)
	summary := summarize(history, now)

	analysis := &types.HealthAnalysis{
		Asset:           *asset,
		HealthScore:     score,
		Prediction:      prediction,
		Summary:         summary,
		Recommendations: recommendations(*asset, score, prediction, summary, now),
		AnalyzedAt:      now,
	}

	metrics.AnalysesTotal.Add(1)
	a.observers.Emit(ctx, types.Event{
		Kind:    types.EventAssetAnalyzed,
		AssetID: assetID,
		Details: map[string]interface{}{
			"riskScore":   prediction.RiskScore,
			"healthScore": score,
		},
		Timestamp: now,
	})

	if prediction.RiskScore >= 0.8 {
		a.observers.Emit(ctx, types.Event{
			Kind:      types.EventHighRiskDetected,
			AssetID:   assetID,
			Message:   prediction.RecommendedAction,
			Timestamp: now,
		})
		a.fireAlert(ctx, types.Alert{
			Level:     types.AlertLevelError,
			AssetID:   assetID,
			Message:   fmt.Sprintf("Asset %s at critical failure risk (%.2f): %s", asset.Name, prediction.RiskScore, prediction.RecommendedAction),
			Timestamp: now,
		})
	}

	return analysis, nil
}

// AnalyzeFleet analyzes every asset in scope. A single asset's failure is
// logged and skipped; it never aborts the batch. Results are sorted
// descending by risk score.
func (a *Analyzer) AnalyzeFleet(ctx context.Context, scope string) ([]types.HealthAnalysis, error) {
	assets, err := a.assets.ListAssets(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}

	results := make([]*types.HealthAnalysis, len(assets))
	var g errgroup.Group
	g.SetLimit(a.parallelism)

	for i, asset := range assets {
		g.Go(func() error {
			analysis, err := a.Analyze(ctx, asset.ID)
			if err != nil {
				metrics.AssetsSkipped.Add(1)
				a.logger.Warn("skipping asset in fleet analysis", "assetId", asset.ID, "error", err)
				a.observers.Emit(ctx, types.Event{
					Kind:      types.EventAssetSkipped,
					AssetID:   asset.ID,
					Message:   err.Error(),
					Timestamp: a.now(),
				})
				a.fireAlert(ctx, types.Alert{
					Level:     types.AlertLevelWarning,
					AssetID:   asset.ID,
					Message:   fmt.Sprintf("Asset %s skipped during fleet analysis: %v", asset.ID, err),
					Timestamp: a.now(),
				})
				return nil
			}
			results[i] = analysis
			return nil
		})
	}
	_ = g.Wait()

	analyses := make([]types.HealthAnalysis, 0, len(results))
	for _, r := range results {
		if r != nil {
			analyses = append(analyses, *r)
		}
	}
	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].Prediction.RiskScore > analyses[j].Prediction.RiskScore
	})

	metrics.FleetSweepsTotal.Add(1)
	a.observers.Emit(ctx, types.Event{
		Kind:      types.EventFleetAnalyzed,
		Message:   fmt.Sprintf("analyzed %d of %d assets", len(analyses), len(assets)),
		Timestamp: a.now(),
	})
	return analyses, nil
}

// HighRisk filters the fleet analysis by risk score. A non-positive
// threshold selects the default.
func (a *Analyzer) HighRisk(ctx context.Context, scope string, threshold float64) ([]types.HealthAnalysis, error) {
	if threshold <= 0 {
		threshold = DefaultHighRiskThreshold
	}
	analyses, err := a.AnalyzeFleet(ctx, scope)
	if err != nil {
		return nil, err
	}
	var high []types.HealthAnalysis
	for _, an := range analyses {
		if an.Prediction.RiskScore >= threshold {
			high = append(high, an)
		}
	}
	return high, nil
}

func (a *Analyzer) fireAlert(ctx context.Context, alert types.Alert) {
	if a.alertFn != nil {
		a.alertFn(ctx, alert)
	}
}
