package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantryhq/gantry/pkg/types"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func eventAt(t time.Time) types.MaintenanceEvent {
	return types.MaintenanceEvent{CreatedAt: t, Status: types.RequestCompleted, Priority: types.PriorityMedium}
}

func eventsEvery(days int, count int, last time.Time) []types.MaintenanceEvent {
	events := make([]types.MaintenanceEvent, 0, count)
	for i := count - 1; i >= 0; i-- {
		events = append(events, eventAt(last.AddDate(0, 0, -i*days)))
	}
	return events
}

func TestConditionRisk_Table(t *testing.T) {
	tests := []struct {
		condition types.Condition
		want      float64
	}{
		{types.ConditionExcellent, 0.1},
		{types.ConditionGood, 0.3},
		{types.ConditionFair, 0.6},
		{types.ConditionPoor, 0.85},
		{types.ConditionCritical, 0.95},
		{types.Condition("refurbished"), 0.5},
		{types.Condition(""), 0.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, conditionRisk(tt.condition), "condition %q", tt.condition)
	}
}

func TestFrequencyRisk_Ladder(t *testing.T) {
	tests := []struct {
		recent int
		want   float64
	}{
		{0, 0.1},
		{1, 0.3},
		{2, 0.5},
		{3, 0.5},
		{4, 0.7},
		{5, 0.7},
		{6, 0.9},
		{9, 0.9},
	}
	for _, tt := range tests {
		events := eventsEvery(7, tt.recent, testNow.AddDate(0, 0, -1))
		assert.Equal(t, tt.want, frequencyRisk(events, testNow), "%d recent events", tt.recent)
	}
}

func TestFrequencyRisk_IgnoresOldEvents(t *testing.T) {
	old := eventsEvery(10, 8, testNow.AddDate(0, 0, -200))
	assert.Equal(t, 0.1, frequencyRisk(old, testNow))
}

func TestAgeRisk_Tiers(t *testing.T) {
	tests := []struct {
		years float64
		want  float64
	}{
		{20, 0.9},
		{15, 0.9},
		{12, 0.7},
		{7, 0.5},
		{3, 0.3},
		{1, 0.1},
	}
	for _, tt := range tests {
		purchased := testNow.AddDate(0, 0, -int(tt.years*365.25)-1)
		asset := types.AssetSnapshot{PurchaseDate: &purchased}
		assert.Equal(t, tt.want, ageRisk(asset, testNow), "%v years", tt.years)
	}
}

func TestAgeRisk_MissingPurchaseDate(t *testing.T) {
	assert.Equal(t, 0.3, ageRisk(types.AssetSnapshot{}, testNow))
}

func TestTimeBasedRisk(t *testing.T) {
	t.Run("insufficient history", func(t *testing.T) {
		assert.Equal(t, 0.3, timeBasedRisk(nil, testNow))
		assert.Equal(t, 0.3, timeBasedRisk([]types.MaintenanceEvent{eventAt(testNow)}, testNow))
	})

	t.Run("zero interval", func(t *testing.T) {
		same := []types.MaintenanceEvent{eventAt(testNow.AddDate(0, 0, -5)), eventAt(testNow.AddDate(0, 0, -5))}
		assert.Equal(t, 0.5, timeBasedRisk(same, testNow))
	})

	t.Run("half of MTBE elapsed", func(t *testing.T) {
		// 30-day cadence, last event 15 days ago.
		events := eventsEvery(30, 4, testNow.AddDate(0, 0, -15))
		assert.InDelta(t, 0.5, timeBasedRisk(events, testNow), 0.01)
	})

	t.Run("overdue caps at 1", func(t *testing.T) {
		events := eventsEvery(10, 3, testNow.AddDate(0, 0, -90))
		assert.Equal(t, 1.0, timeBasedRisk(events, testNow))
	})
}

func TestCombine_WeightedSum(t *testing.T) {
	f := types.RiskFactors{TimeBased: 0.8, Frequency: 0.7, Condition: 0.85, Age: 0.5}
	// 0.35*0.8 + 0.25*0.7 + 0.25*0.85 + 0.15*0.5 = 0.7275 -> 0.73
	assert.Equal(t, 0.73, combine(DefaultWeights(), f))
}

func TestPredict_HighRiskScenario(t *testing.T) {
	// Critical condition, 20 years old, 7 events within the last 180 days.
	purchased := testNow.AddDate(-20, 0, 0)
	asset := types.AssetSnapshot{
		ID:           "pump-1",
		Condition:    types.ConditionCritical,
		Status:       types.AssetDegraded,
		PurchaseDate: &purchased,
	}
	history := eventsEvery(20, 7, testNow.AddDate(0, 0, -25))

	result := NewRuleBased(nil).Predict(asset, history, testNow)

	assert.Equal(t, 0.9, result.Factors.Frequency)
	assert.Equal(t, 0.95, result.Factors.Condition)
	assert.Equal(t, 0.9, result.Factors.Age)
	assert.GreaterOrEqual(t, result.RiskScore, 0.8)
	assert.Contains(t, result.RecommendedAction, "Urgent")
	assert.Equal(t, 0.85, result.Confidence)
	require.NotNil(t, result.PredictedFailureDate)
}

func TestPredict_LowRiskScenario(t *testing.T) {
	purchased := testNow.AddDate(-1, 0, 0)
	asset := types.AssetSnapshot{
		ID:           "hvac-2",
		Condition:    types.ConditionExcellent,
		Status:       types.AssetOperational,
		PurchaseDate: &purchased,
	}

	result := NewRuleBased(nil).Predict(asset, nil, testNow)

	assert.Less(t, result.RiskScore, 0.4)
	assert.Equal(t, "Continue routine monitoring.", result.RecommendedAction)
	assert.Contains(t, result.Reasoning, "low")
	assert.Equal(t, 0.30, result.Confidence)

	// No history: failure date is offset from now by tier.
	require.NotNil(t, result.PredictedFailureDate)
	assert.Equal(t, testNow.AddDate(0, 0, 90), *result.PredictedFailureDate)
}

func TestPredict_FailureDateFromInterval(t *testing.T) {
	asset := types.AssetSnapshot{ID: "lift-3", Condition: types.ConditionGood}
	last := testNow.AddDate(0, 0, -5)
	history := eventsEvery(30, 4, last)

	result := NewRuleBased(nil).Predict(asset, history, testNow)
	require.NotNil(t, result.PredictedFailureDate)

	// Projection = last event + MTBE shrunk by (1 - score*0.5).
	wantDays := 30 * (1 - result.RiskScore*0.5)
	want := last.Add(time.Duration(wantDays * 24 * float64(time.Hour)))
	assert.WithinDuration(t, want, *result.PredictedFailureDate, time.Second)
}

func TestPredict_Deterministic(t *testing.T) {
	purchased := testNow.AddDate(-8, 0, 0)
	asset := types.AssetSnapshot{ID: "gen-4", Condition: types.ConditionFair, PurchaseDate: &purchased}
	history := eventsEvery(45, 6, testNow.AddDate(0, 0, -30))

	s := NewRuleBased(nil)
	first := s.Predict(asset, history, testNow)
	second := s.Predict(asset, history, testNow)
	assert.Equal(t, first, second)
}

func TestPredict_UnsortedHistory(t *testing.T) {
	asset := types.AssetSnapshot{ID: "fan-5", Condition: types.ConditionGood}
	sorted := eventsEvery(30, 4, testNow.AddDate(0, 0, -15))
	shuffled := []types.MaintenanceEvent{sorted[2], sorted[0], sorted[3], sorted[1]}

	s := NewRuleBased(nil)
	assert.Equal(t, s.Predict(asset, sorted, testNow), s.Predict(asset, shuffled, testNow))
}

func TestConfidence_Steps(t *testing.T) {
	tests := []struct {
		n    int
		want float64
	}{
		{0, 0.30}, {1, 0.55}, {2, 0.55}, {3, 0.70}, {4, 0.70},
		{5, 0.85}, {9, 0.85}, {10, 0.95}, {40, 0.95},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, confidence(tt.n), "history length %d", tt.n)
	}
}

func TestReasoning_Clauses(t *testing.T) {
	t.Run("hard thresholds", func(t *testing.T) {
		r := reasoning(types.RiskFactors{TimeBased: 0.9, Frequency: 0.8, Condition: 0.85, Age: 0.9})
		assert.Contains(t, r, "overdue for maintenance")
		assert.Contains(t, r, "High frequency of recent repairs")
		assert.Contains(t, r, "significant wear")
		assert.Contains(t, r, "exceeds typical service life")
	})

	t.Run("soft thresholds", func(t *testing.T) {
		r := reasoning(types.RiskFactors{TimeBased: 0.6, Frequency: 0.6, Condition: 0.6, Age: 0.6})
		assert.Contains(t, r, "approaching")
		assert.Contains(t, r, "elevated")
		assert.Contains(t, r, "moderate wear")
	})

	t.Run("no trigger", func(t *testing.T) {
		r := reasoning(types.RiskFactors{TimeBased: 0.2, Frequency: 0.1, Condition: 0.3, Age: 0.1})
		assert.Contains(t, r, "low")
	})
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("", nil)
	require.NoError(t, err)
	assert.Equal(t, StrategyRuleBased, s.Name())

	_, err = NewStrategy(StrategyLearned, nil)
	assert.ErrorIs(t, err, ErrStrategyUnavailable)

	_, err = NewStrategy("bogus", nil)
	assert.Error(t, err)
}

func TestRiskScore_BoundedWithCustomWeights(t *testing.T) {
	w := types.RiskWeights{TimeBased: 0.5, Frequency: 0.2, Condition: 0.2, Age: 0.1}
	s := NewRuleBased(&w)

	purchased := testNow.AddDate(-30, 0, 0)
	asset := types.AssetSnapshot{Condition: types.ConditionCritical, PurchaseDate: &purchased}
	history := eventsEvery(5, 12, testNow.AddDate(0, 0, -60))

	result := s.Predict(asset, history, testNow)
	assert.LessOrEqual(t, result.RiskScore, 1.0)
	assert.GreaterOrEqual(t, result.RiskScore, 0.0)
}
