package risk

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gantryhq/gantry/pkg/types"
)

// Fallback constants for insufficient data (documented policy, not errors).
const (
	insufficientHistoryRisk = 0.3 // fewer than 2 events
	zeroIntervalRisk        = 0.5 // events share a creation timestamp
	unknownConditionRisk    = 0.5
	unknownAgeRisk          = 0.3 // missing purchase date

	frequencyWindowDays = 180
	hoursPerDay         = 24
)

// conditionRiskTable maps condition grades to fixed risk contributions.
var conditionRiskTable = map[types.Condition]float64{
	types.ConditionExcellent: 0.1,
	types.ConditionGood:      0.3,
	types.ConditionFair:      0.6,
	types.ConditionPoor:      0.85,
	types.ConditionCritical:  0.95,
}

// DefaultWeights returns the factor weights used by the original system.
// They are empirically chosen and tunable via configuration.
func DefaultWeights() types.RiskWeights {
	return types.RiskWeights{
		TimeBased: 0.35,
		Frequency: 0.25,
		Condition: 0.25,
		Age:       0.15,
	}
}

// RuleBased is the deterministic heuristic prediction strategy.
type RuleBased struct {
	weights types.RiskWeights
}

// NewRuleBased creates a rule-based strategy. A nil weights pointer selects
// the defaults.
func NewRuleBased(weights *types.RiskWeights) *RuleBased {
	w := DefaultWeights()
	if weights != nil {
		w = *weights
	}
	return &RuleBased{weights: w}
}

// Name returns the strategy identifier.
func (s *RuleBased) Name() string { return StrategyRuleBased }

// Predict computes the four risk factors, combines them into a weighted
// score, and derives the failure date, confidence, reasoning, and action.
func (s *RuleBased) Predict(asset types.AssetSnapshot, history []types.MaintenanceEvent, now time.Time) types.PredictionResult {
	events := sortedByCreation(history)

	factors := types.RiskFactors{
		TimeBased: timeBasedRisk(events, now),
		Frequency: frequencyRisk(events, now),
		Condition: conditionRisk(asset.Condition),
		Age:       ageRisk(asset, now),
	}
	score := combine(s.weights, factors)

	return types.PredictionResult{
		RiskScore:            score,
		PredictedFailureDate: predictFailureDate(events, score, now),
		Confidence:           confidence(len(events)),
		Reasoning:            reasoning(factors),
		RecommendedAction:    recommendedAction(score),
		Factors:              factors,
	}
}

// combine applies the factor weights and rounds to 2 decimals.
func combine(w types.RiskWeights, f types.RiskFactors) float64 {
	score := w.TimeBased*f.TimeBased +
		w.Frequency*f.Frequency +
		w.Condition*f.Condition +
		w.Age*f.Age
	return round2(score)
}

// timeBasedRisk compares the time since the last event against the mean
// time between events (MTBE).
func timeBasedRisk(events []types.MaintenanceEvent, now time.Time) float64 {
	if len(events) < 2 {
		return insufficientHistoryRisk
	}
	mtbe := meanIntervalDays(events)
	if mtbe <= 0 {
		return zeroIntervalRisk
	}
	sinceLast := now.Sub(events[len(events)-1].CreatedAt).Hours() / hoursPerDay
	if sinceLast < 0 {
		sinceLast = 0
	}
	return math.Min(1.0, sinceLast/mtbe)
}

// frequencyRisk maps the count of events within the trailing window to a
// fixed risk ladder.
func frequencyRisk(events []types.MaintenanceEvent, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -frequencyWindowDays)
	count := 0
	for _, e := range events {
		if !e.CreatedAt.Before(cutoff) {
			count++
		}
	}
	switch {
	case count >= 6:
		return 0.9
	case count >= 4:
		return 0.7
	case count >= 2:
		return 0.5
	case count >= 1:
		return 0.3
	default:
		return 0.1
	}
}

func conditionRisk(c types.Condition) float64 {
	if r, ok := conditionRiskTable[c]; ok {
		return r
	}
	return unknownConditionRisk
}

func ageRisk(asset types.AssetSnapshot, now time.Time) float64 {
	if asset.PurchaseDate == nil {
		return unknownAgeRisk
	}
	years := asset.AgeYears(now)
	switch {
	case years >= 15:
		return 0.9
	case years >= 10:
		return 0.7
	case years >= 5:
		return 0.5
	case years >= 2:
		return 0.3
	default:
		return 0.1
	}
}

// predictFailureDate projects the next failure. With fewer than 2 events the
// offset comes from now, scaled by risk tier; otherwise the MTBE is shrunk by
// the risk score and projected from the last event.
func predictFailureDate(events []types.MaintenanceEvent, score float64, now time.Time) *time.Time {
	if len(events) < 2 {
		days := 90
		switch {
		case score > 0.8:
			days = 7
		case score > 0.6:
			days = 30
		}
		t := now.AddDate(0, 0, days)
		return &t
	}

	mtbe := meanIntervalDays(events)
	interval := mtbe * (1 - score*0.5)
	t := events[len(events)-1].CreatedAt.Add(time.Duration(interval * hoursPerDay * float64(time.Hour)))
	return &t
}

// confidence is a monotonic step function of history length.
func confidence(n int) float64 {
	switch {
	case n >= 10:
		return 0.95
	case n >= 5:
		return 0.85
	case n >= 3:
		return 0.70
	case n >= 1:
		return 0.55
	default:
		return 0.30
	}
}

// reasoning concatenates clause fragments for factors above their soft (0.5)
// or hard (0.7) thresholds.
func reasoning(f types.RiskFactors) string {
	var clauses []string

	switch {
	case f.TimeBased > 0.7:
		clauses = append(clauses, "Asset is overdue for maintenance based on its historical service interval.")
	case f.TimeBased > 0.5:
		clauses = append(clauses, "Asset is approaching its typical service interval.")
	}
	switch {
	case f.Frequency > 0.7:
		clauses = append(clauses, "High frequency of recent repairs indicates accelerating wear.")
	case f.Frequency > 0.5:
		clauses = append(clauses, "Repair frequency is elevated compared to baseline.")
	}
	switch {
	case f.Condition > 0.7:
		clauses = append(clauses, "Condition assessment shows significant wear.")
	case f.Condition > 0.5:
		clauses = append(clauses, "Condition assessment shows moderate wear.")
	}
	switch {
	case f.Age > 0.7:
		clauses = append(clauses, "Asset age exceeds typical service life.")
	case f.Age > 0.5:
		clauses = append(clauses, "Asset is in the later half of its expected service life.")
	}

	if len(clauses) == 0 {
		return "All risk factors are within normal ranges; near-term failure risk is low."
	}
	return strings.Join(clauses, " ")
}

func recommendedAction(score float64) string {
	switch {
	case score >= 0.8:
		return "Urgent: schedule immediate maintenance to prevent failure."
	case score >= 0.6:
		return "Schedule preventive maintenance within 7 days."
	case score >= 0.4:
		return "Plan preventive maintenance within 30 days."
	default:
		return "Continue routine monitoring."
	}
}

// meanIntervalDays computes the MTBE over consecutive creation-time gaps.
// Events must already be sorted by creation time.
func meanIntervalDays(events []types.MaintenanceEvent) float64 {
	if len(events) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(events); i++ {
		total += events[i].CreatedAt.Sub(events[i-1].CreatedAt).Hours() / hoursPerDay
	}
	return total / float64(len(events)-1)
}

// sortedByCreation returns a copy of history ordered by creation time.
func sortedByCreation(history []types.MaintenanceEvent) []types.MaintenanceEvent {
	events := make([]types.MaintenanceEvent, len(history))
	copy(events, history)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
