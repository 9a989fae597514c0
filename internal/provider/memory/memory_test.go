package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/pkg/types"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSource() *Source {
	s := New()
	s.SetClock(func() time.Time { return testNow })
	return s
}

func TestGetAsset_NotFound(t *testing.T) {
	s := newTestSource()

	_, err := s.GetAsset(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, provider.IsNotFound(err))
}

func TestGetAsset_RoundTrip(t *testing.T) {
	s := newTestSource()
	s.PutAsset(types.AssetSnapshot{ID: "a1", Name: "Boiler", Condition: types.ConditionGood})

	asset, err := s.GetAsset(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Boiler", asset.Name)
}

func TestGetHistory_SortedByCreatedAt(t *testing.T) {
	s := newTestSource()
	s.AddEvent(types.MaintenanceEvent{ID: "e2", AssetID: "a1", CreatedAt: testNow.AddDate(0, 0, -10)})
	s.AddEvent(types.MaintenanceEvent{ID: "e1", AssetID: "a1", CreatedAt: testNow.AddDate(0, 0, -30)})
	s.AddEvent(types.MaintenanceEvent{ID: "e3", AssetID: "a1", CreatedAt: testNow.AddDate(0, 0, -1)})

	events, err := s.GetHistory(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "e1", events[0].ID)
	assert.Equal(t, "e3", events[2].ID)
}

func TestListAssets_ScopeFilterAndOrder(t *testing.T) {
	s := newTestSource()
	s.PutAsset(types.AssetSnapshot{ID: "b", Scope: "plant-1"})
	s.PutAsset(types.AssetSnapshot{ID: "a", Scope: "plant-1"})
	s.PutAsset(types.AssetSnapshot{ID: "c", Scope: "plant-2"})

	assets, err := s.ListAssets(context.Background(), "plant-1")
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "a", assets[0].ID)
	assert.Equal(t, "b", assets[1].ID)

	all, err := s.ListAssets(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListActiveTechnicians_DerivesMetrics(t *testing.T) {
	s := newTestSource()
	s.PutTechnician(types.TechnicianSnapshot{ID: "t1", Name: "Ana", Active: true})
	s.PutTechnician(types.TechnicianSnapshot{ID: "t2", Name: "Bo", Active: false})

	completedAt := testNow.AddDate(0, 0, -3)
	s.PutWorkOrder(types.WorkOrder{ID: "wo1", AssigneeID: "t1", Status: types.RequestSubmitted, CreatedAt: testNow.AddDate(0, 0, -2)})
	s.PutWorkOrder(types.WorkOrder{ID: "wo2", AssigneeID: "t1", Status: types.RequestInProgress, CreatedAt: testNow.AddDate(0, 0, -4)})
	s.PutWorkOrder(types.WorkOrder{ID: "wo3", AssigneeID: "t1", Status: types.RequestCompleted,
		CreatedAt: testNow.AddDate(0, 0, -5), CompletedAt: &completedAt})

	techs, err := s.ListActiveTechnicians(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, techs, 1)

	t1 := techs[0]
	assert.Equal(t, 2, t1.ActiveRequests)
	assert.Equal(t, 1, t1.PendingRequests)
	assert.Equal(t, 1, t1.InProgressRequests)
	assert.Equal(t, 1, t1.CompletedLast30Days)
	// One completed out of three orders in the trailing month.
	assert.InDelta(t, 1.0/3.0, t1.CompletionRate, 1e-9)
	assert.InDelta(t, 2.0, t1.AvgCompletionDays, 1e-9)
}

func TestListActiveTechnicians_InsertionOrder(t *testing.T) {
	s := newTestSource()
	s.PutTechnician(types.TechnicianSnapshot{ID: "zeta", Active: true})
	s.PutTechnician(types.TechnicianSnapshot{ID: "alpha", Active: true})

	techs, err := s.ListActiveTechnicians(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, techs, 2)
	assert.Equal(t, "zeta", techs[0].ID)
	assert.Equal(t, "alpha", techs[1].ID)
}

func TestGetWorkload_NotFound(t *testing.T) {
	s := newTestSource()

	_, err := s.GetWorkload(context.Background(), "ghost")
	assert.True(t, provider.IsNotFound(err))
}

func TestRecentCompletionRate(t *testing.T) {
	s := newTestSource()
	s.PutTechnician(types.TechnicianSnapshot{ID: "t1", Active: true})

	// No orders in the window counts as a clean slate.
	rate, err := s.RecentCompletionRate(context.Background(), "t1", 30)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)

	s.PutWorkOrder(types.WorkOrder{ID: "wo1", AssigneeID: "t1", Status: types.RequestCompleted, CreatedAt: testNow.AddDate(0, 0, -5)})
	s.PutWorkOrder(types.WorkOrder{ID: "wo2", AssigneeID: "t1", Status: types.RequestSubmitted, CreatedAt: testNow.AddDate(0, 0, -3)})
	// Cancelled and out-of-window orders are excluded.
	s.PutWorkOrder(types.WorkOrder{ID: "wo3", AssigneeID: "t1", Status: types.RequestCancelled, CreatedAt: testNow.AddDate(0, 0, -2)})
	s.PutWorkOrder(types.WorkOrder{ID: "wo4", AssigneeID: "t1", Status: types.RequestSubmitted, CreatedAt: testNow.AddDate(0, 0, -60)})

	rate, err = s.RecentCompletionRate(context.Background(), "t1", 30)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rate, 1e-9)
}

func TestListOpenAssignedTo_PriorityOrder(t *testing.T) {
	s := newTestSource()
	s.PutWorkOrder(types.WorkOrder{ID: "urgent", AssigneeID: "t1", Status: types.RequestAssigned,
		Priority: types.PriorityUrgent, CreatedAt: testNow.AddDate(0, 0, -1)})
	s.PutWorkOrder(types.WorkOrder{ID: "low-old", AssigneeID: "t1", Status: types.RequestSubmitted,
		Priority: types.PriorityLow, CreatedAt: testNow.AddDate(0, 0, -9)})
	s.PutWorkOrder(types.WorkOrder{ID: "low-new", AssigneeID: "t1", Status: types.RequestSubmitted,
		Priority: types.PriorityLow, CreatedAt: testNow.AddDate(0, 0, -2)})
	s.PutWorkOrder(types.WorkOrder{ID: "done", AssigneeID: "t1", Status: types.RequestCompleted,
		Priority: types.PriorityLow, CreatedAt: testNow.AddDate(0, 0, -8)})
	s.PutWorkOrder(types.WorkOrder{ID: "other", AssigneeID: "t2", Status: types.RequestSubmitted,
		Priority: types.PriorityLow, CreatedAt: testNow.AddDate(0, 0, -7)})

	open, err := s.ListOpenAssignedTo(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, open, 3)
	assert.Equal(t, "low-old", open[0].ID)
	assert.Equal(t, "low-new", open[1].ID)
	assert.Equal(t, "urgent", open[2].ID)
}

func TestGetWorkOrder_NotFound(t *testing.T) {
	s := newTestSource()

	_, err := s.GetWorkOrder(context.Background(), "ghost")
	assert.True(t, provider.IsNotFound(err))
}
