package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gantryhq/gantry/pkg/types"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func eventAt(t time.Time) types.MaintenanceEvent {
	return types.MaintenanceEvent{CreatedAt: t, Status: types.RequestCompleted}
}

func TestScore_NewExcellentAsset(t *testing.T) {
	purchased := testNow.AddDate(-1, 0, 0)
	asset := types.AssetSnapshot{Condition: types.ConditionExcellent, PurchaseDate: &purchased}

	assert.Equal(t, 100.0, NewScorer().Score(asset, nil, testNow))
}

func TestScore_ConditionBases(t *testing.T) {
	tests := []struct {
		condition types.Condition
		want      float64
	}{
		{types.ConditionExcellent, 100},
		{types.ConditionGood, 80},
		{types.ConditionFair, 55},
		{types.ConditionPoor, 30},
		{types.ConditionCritical, 0},
		{types.Condition("unknown"), 50},
	}
	for _, tt := range tests {
		asset := types.AssetSnapshot{Condition: tt.condition}
		assert.Equal(t, tt.want, NewScorer().Score(asset, nil, testNow), "condition %q", tt.condition)
	}
}

func TestScore_FrequencyPenalty(t *testing.T) {
	asset := types.AssetSnapshot{Condition: types.ConditionExcellent}

	t.Run("three events within 30 days", func(t *testing.T) {
		history := []types.MaintenanceEvent{
			eventAt(testNow.AddDate(0, 0, -20)),
			eventAt(testNow.AddDate(0, 0, -10)),
			eventAt(testNow.AddDate(0, 0, -2)),
		}
		assert.Equal(t, 70.0, NewScorer().Score(asset, history, testNow))
	})

	t.Run("three events within 90 days", func(t *testing.T) {
		history := []types.MaintenanceEvent{
			eventAt(testNow.AddDate(0, 0, -80)),
			eventAt(testNow.AddDate(0, 0, -40)),
			eventAt(testNow.AddDate(0, 0, -5)),
		}
		assert.Equal(t, 85.0, NewScorer().Score(asset, history, testNow))
	})

	t.Run("fewer than three events never penalized", func(t *testing.T) {
		history := []types.MaintenanceEvent{
			eventAt(testNow.AddDate(0, 0, -3)),
			eventAt(testNow.AddDate(0, 0, -1)),
		}
		assert.Equal(t, 100.0, NewScorer().Score(asset, history, testNow))
	})

	t.Run("spread-out events not penalized", func(t *testing.T) {
		history := []types.MaintenanceEvent{
			eventAt(testNow.AddDate(-2, 0, 0)),
			eventAt(testNow.AddDate(-1, 0, 0)),
			eventAt(testNow.AddDate(0, 0, -100)),
		}
		assert.Equal(t, 100.0, NewScorer().Score(asset, history, testNow))
	})
}

func TestScore_AgePenalty(t *testing.T) {
	t.Run("older than 10 years", func(t *testing.T) {
		purchased := testNow.AddDate(-12, 0, 0)
		asset := types.AssetSnapshot{Condition: types.ConditionExcellent, PurchaseDate: &purchased}
		assert.Equal(t, 80.0, NewScorer().Score(asset, nil, testNow))
	})

	t.Run("older than 5 years", func(t *testing.T) {
		purchased := testNow.AddDate(-7, 0, 0)
		asset := types.AssetSnapshot{Condition: types.ConditionExcellent, PurchaseDate: &purchased}
		assert.Equal(t, 90.0, NewScorer().Score(asset, nil, testNow))
	})
}

func TestScore_PenaltiesCompound(t *testing.T) {
	purchased := testNow.AddDate(-12, 0, 0)
	asset := types.AssetSnapshot{Condition: types.ConditionGood, PurchaseDate: &purchased}
	history := []types.MaintenanceEvent{
		eventAt(testNow.AddDate(0, 0, -25)),
		eventAt(testNow.AddDate(0, 0, -15)),
		eventAt(testNow.AddDate(0, 0, -5)),
	}
	// 80 * 0.7 * 0.8
	assert.InDelta(t, 44.8, NewScorer().Score(asset, history, testNow), 0.001)
}

func TestScore_Clamped(t *testing.T) {
	purchased := testNow.AddDate(-20, 0, 0)
	asset := types.AssetSnapshot{Condition: types.ConditionCritical, PurchaseDate: &purchased}
	score := NewScorer().Score(asset, nil, testNow)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}
