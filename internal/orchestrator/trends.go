package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gantryhq/gantry/pkg/types"
)

// Trend labels.
const (
	TrendIncreasing   = "Increasing"
	TrendDecreasing   = "Decreasing"
	TrendStable       = "Stable"
	TrendInsufficient = "Insufficient data"
)

// Minimum history sizes below which a trend is not meaningful.
const (
	minFrequencyEvents = 6
	minIntervalEvents  = 4

	// A half-over-half change beyond 30% in either direction counts as a
	// trend; anything inside the band is stable.
	trendUpRatio   = 1.3
	trendDownRatio = 0.7
)

// AssetTrends labels the direction of an asset's maintenance frequency and
// mean repair interval by comparing the first and second halves of its
// history.
func (o *Orchestrator) AssetTrends(ctx context.Context, assetID string) (*types.AssetTrends, error) {
	if _, err := o.assets.GetAsset(ctx, assetID); err != nil {
		return nil, fmt.Errorf("loading asset %q: %w", assetID, err)
	}
	history, err := o.assets.GetHistory(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("loading history for %q: %w", assetID, err)
	}

	events := make([]types.MaintenanceEvent, len(history))
	copy(events, history)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	return &types.AssetTrends{
		AssetID:        assetID,
		EventCount:     len(events),
		FrequencyTrend: frequencyTrend(events),
		IntervalTrend:  intervalTrend(events),
	}, nil
}

// frequencyTrend splits the covered time span in half and compares event
// counts. More events in the recent half means frequency is increasing.
func frequencyTrend(events []types.MaintenanceEvent) string {
	if len(events) < minFrequencyEvents {
		return TrendInsufficient
	}

	first := events[0].CreatedAt
	last := events[len(events)-1].CreatedAt
	span := last.Sub(first)
	if span <= 0 {
		return TrendInsufficient
	}
	midpoint := first.Add(span / 2)

	var early, late int
	for _, e := range events {
		if e.CreatedAt.Before(midpoint) {
			early++
		} else {
			late++
		}
	}
	if early == 0 {
		return TrendIncreasing
	}

	switch ratio := float64(late) / float64(early); {
	case ratio > trendUpRatio:
		return TrendIncreasing
	case ratio < trendDownRatio:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// intervalTrend splits the event list in half and compares mean gaps between
// consecutive events. Growing intervals mean the asset is failing less often.
func intervalTrend(events []types.MaintenanceEvent) string {
	if len(events) < minIntervalEvents {
		return TrendInsufficient
	}

	mid := len(events) / 2
	early := meanGap(events[:mid])
	late := meanGap(events[mid:])
	if early <= 0 || late <= 0 {
		return TrendInsufficient
	}

	switch ratio := late / early; {
	case ratio > trendUpRatio:
		return TrendIncreasing
	case ratio < trendDownRatio:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// meanGap returns the mean gap between consecutive events, in days.
func meanGap(events []types.MaintenanceEvent) float64 {
	if len(events) < 2 {
		return 0
	}
	var total time.Duration
	for i := 1; i < len(events); i++ {
		total += events[i].CreatedAt.Sub(events[i-1].CreatedAt)
	}
	return total.Hours() / 24 / float64(len(events)-1)
}
