package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantryhq/gantry/internal/analyzer"
	"github.com/gantryhq/gantry/internal/assignment"
	"github.com/gantryhq/gantry/internal/audit"
	"github.com/gantryhq/gantry/internal/health"
	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/internal/risk"
	"github.com/gantryhq/gantry/internal/testutil"
	"github.com/gantryhq/gantry/pkg/types"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestOrchestrator(src *testutil.MockSource) (*Orchestrator, *testutil.CollectObserver) {
	src.SetClock(func() time.Time { return testNow })
	collect := &testutil.CollectObserver{}
	obs := audit.Observers{collect}

	an := analyzer.New(src, risk.NewRuleBased(nil), health.NewScorer(), nil,
		analyzer.WithClock(func() time.Time { return testNow }),
		analyzer.WithObservers(obs),
	)
	eng := assignment.New(src, src,
		assignment.WithClock(func() time.Time { return testNow }),
		assignment.WithObservers(obs),
	)
	o := New(an, eng, src,
		WithClock(func() time.Time { return testNow }),
		WithObservers(obs),
	)
	return o, collect
}

func seedHighRiskAsset(src *testutil.MockSource, id string) {
	purchased := testNow.AddDate(-20, 0, 0)
	src.PutAsset(types.AssetSnapshot{
		ID:           id,
		Name:         "Boiler " + id,
		Condition:    types.ConditionCritical,
		Status:       types.AssetDegraded,
		PurchaseDate: &purchased,
	})
	last := testNow.AddDate(0, 0, -25)
	for i := 0; i < 7; i++ {
		src.AddEvent(types.MaintenanceEvent{
			AssetID:   id,
			CreatedAt: last.AddDate(0, 0, -20*(6-i)),
			Status:    types.RequestCompleted,
		})
	}
}

func seedLowRiskAsset(src *testutil.MockSource, id string) {
	purchased := testNow.AddDate(-1, 0, 0)
	src.PutAsset(types.AssetSnapshot{
		ID:           id,
		Name:         "Chiller " + id,
		Condition:    types.ConditionExcellent,
		Status:       types.AssetOperational,
		PurchaseDate: &purchased,
	})
}

func TestFleetOverview(t *testing.T) {
	src := testutil.NewMockSource()
	seedLowRiskAsset(src, "low")
	seedHighRiskAsset(src, "high")
	src.PutTechnician(types.TechnicianSnapshot{ID: "t1", Name: "Sam", Active: true})
	o, _ := newTestOrchestrator(src)

	overview, err := o.FleetOverview(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, testNow, overview.GeneratedAt)
	assert.Equal(t, 2, overview.Dashboard.TotalAssets)
	require.Len(t, overview.Fleet, 2)
	assert.Equal(t, "high", overview.Fleet[0].Asset.ID)

	require.Len(t, overview.Workload, 1)
	assert.Equal(t, "t1", overview.Workload[0].Technician.ID)
	assert.Equal(t, types.WorkloadAvailable, overview.Workload[0].Tier)

	// Only the high-risk asset is predicted inside the 30-day window.
	require.Len(t, overview.Schedule, 1)
	assert.Equal(t, "high", overview.Schedule[0].AssetID)
}

func TestInsights(t *testing.T) {
	src := testutil.NewMockSource()
	seedLowRiskAsset(src, "low")
	seedHighRiskAsset(src, "high")
	src.PutTechnician(types.TechnicianSnapshot{ID: "t1", Name: "Sam", Active: true})
	o, _ := newTestOrchestrator(src)

	insights, err := o.Insights(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, insights.Dashboard.TotalAssets)
	require.Len(t, insights.Alerts, 1)
	assert.Contains(t, insights.Alerts[0], "high")

	require.NotEmpty(t, insights.Recommendations)
	assert.Contains(t, insights.Recommendations[0], "critical failure risk")

	require.Len(t, insights.TopRisks, 2)
	assert.Equal(t, "high", insights.TopRisks[0].Asset.ID)

	// Seven evenly spaced events: the midpoint split counts the middle
	// event as recent, so 4/3 crosses the increasing threshold.
	require.Contains(t, insights.Trends, "high")
	assert.Equal(t, TrendIncreasing, insights.Trends["high"].FrequencyTrend)
	assert.Equal(t, TrendStable, insights.Trends["high"].IntervalTrend)
	assert.Equal(t, TrendInsufficient, insights.Trends["low"].FrequencyTrend)

	// Last event Feb 4 plus the risk-shortened 10.5-day interval.
	require.Len(t, insights.Calendar, 1)
	assert.Len(t, insights.Calendar["2026-02-15"], 1)

	assert.Equal(t, 1, insights.Workload.Technicians)
	assert.Equal(t, 1, insights.Workload.Available)
	assert.Equal(t, 0, insights.Workload.Overloaded)
	assert.NotEmpty(t, insights.Workload.Summary)
}

func TestInsights_TopRisksCapped(t *testing.T) {
	src := testutil.NewMockSource()
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		seedLowRiskAsset(src, id)
	}
	o, _ := newTestOrchestrator(src)

	insights, err := o.Insights(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, insights.TopRisks, 5)
	assert.Empty(t, insights.Alerts)
}

func TestDraftPreventiveRequest(t *testing.T) {
	src := testutil.NewMockSource()
	seedHighRiskAsset(src, "a1")
	o, collect := newTestOrchestrator(src)

	draft, err := o.DraftPreventiveRequest(context.Background(), "a1", false)
	require.NoError(t, err)

	assert.Len(t, draft.ID, 26) // ULID
	assert.Equal(t, "a1", draft.AssetID)
	assert.Equal(t, "Preventive maintenance: Boiler a1", draft.Title)
	assert.Equal(t, types.PriorityHigh, draft.Priority)
	assert.NotEmpty(t, draft.Description)
	assert.Nil(t, draft.Assignment)
	assert.Len(t, collect.EventsOfKind(types.EventDraftRequestCreated), 1)
}

func TestDraftPreventiveRequest_AutoAssign(t *testing.T) {
	src := testutil.NewMockSource()
	seedHighRiskAsset(src, "a1")
	src.PutTechnician(types.TechnicianSnapshot{ID: "t1", Name: "Sam", Active: true})
	o, _ := newTestOrchestrator(src)

	draft, err := o.DraftPreventiveRequest(context.Background(), "a1", true)
	require.NoError(t, err)

	require.NotNil(t, draft.Assignment)
	assert.Equal(t, "t1", draft.Assignment.TechnicianID)
	assert.Equal(t, draft.ID, draft.Assignment.WorkOrderID)
}

func TestDraftPreventiveRequest_AutoAssignEmptyRoster(t *testing.T) {
	src := testutil.NewMockSource()
	seedHighRiskAsset(src, "a1")
	o, _ := newTestOrchestrator(src)

	draft, err := o.DraftPreventiveRequest(context.Background(), "a1", true)
	require.NoError(t, err)

	require.NotNil(t, draft.Assignment)
	assert.True(t, draft.Assignment.NoCandidate)
}

func TestDraftPreventiveRequest_UnknownAsset(t *testing.T) {
	src := testutil.NewMockSource()
	o, _ := newTestOrchestrator(src)

	_, err := o.DraftPreventiveRequest(context.Background(), "ghost", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrNotFound))
}
