// Package health computes the 0-100 asset health score used for
// dashboarding. It is independent of the failure-risk score.
package health

import (
	"sort"
	"time"

	"github.com/gantryhq/gantry/pkg/types"
)

// conditionBase maps condition grades to the base score.
var conditionBase = map[types.Condition]float64{
	types.ConditionExcellent: 100,
	types.ConditionGood:      80,
	types.ConditionFair:      55,
	types.ConditionPoor:      30,
	types.ConditionCritical:  0,
}

const unknownConditionBase = 50

// Frequency penalty windows: three recent events packed into a short span
// indicate deterioration.
const (
	tightSpanDays    = 30
	elevatedSpanDays = 90

	tightSpanPenalty    = 0.7
	elevatedSpanPenalty = 0.85

	oldAgePenalty   = 0.8 // older than 10 years
	agingPenalty    = 0.9 // older than 5 years
	oldAgeYears     = 10
	agingYears      = 5
	penaltyMinCount = 3
)

// Scorer computes health scores.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer { return &Scorer{} }

// Score computes the health score for an asset from its condition, recent
// maintenance density, and age, clamped to [0,100].
func (s *Scorer) Score(asset types.AssetSnapshot, history []types.MaintenanceEvent, now time.Time) float64 {
	score, ok := conditionBase[asset.Condition]
	if !ok {
		score = unknownConditionBase
	}

	if span, ok := recentSpanDays(history); ok {
		switch {
		case span < tightSpanDays:
			score *= tightSpanPenalty
		case span < elevatedSpanDays:
			score *= elevatedSpanPenalty
		}
	}

	if asset.PurchaseDate != nil {
		switch years := asset.AgeYears(now); {
		case years > oldAgeYears:
			score *= oldAgePenalty
		case years > agingYears:
			score *= agingPenalty
		}
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// recentSpanDays returns the creation-time span of the 3 most recent events.
// The second return is false when history has fewer than 3 events.
func recentSpanDays(history []types.MaintenanceEvent) (float64, bool) {
	if len(history) < penaltyMinCount {
		return 0, false
	}
	events := make([]types.MaintenanceEvent, len(history))
	copy(events, history)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	recent := events[len(events)-penaltyMinCount:]
	span := recent[len(recent)-1].CreatedAt.Sub(recent[0].CreatedAt).Hours() / 24
	return span, true
}
