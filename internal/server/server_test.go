package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantryhq/gantry/internal/analyzer"
	"github.com/gantryhq/gantry/internal/assignment"
	"github.com/gantryhq/gantry/internal/health"
	"github.com/gantryhq/gantry/internal/orchestrator"
	"github.com/gantryhq/gantry/internal/risk"
	"github.com/gantryhq/gantry/internal/testutil"
	"github.com/gantryhq/gantry/pkg/types"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestServer(t *testing.T) (*httptest.Server, *testutil.MockSource) {
	t.Helper()
	src := testutil.NewMockSource()
	src.SetClock(func() time.Time { return testNow })

	clock := func() time.Time { return testNow }
	an := analyzer.New(src, risk.NewRuleBased(nil), health.NewScorer(), nil, analyzer.WithClock(clock))
	eng := assignment.New(src, src, assignment.WithClock(clock))
	orch := orchestrator.New(an, eng, src, orchestrator.WithClock(clock))
	srv := New(":0", an, eng, orch, src)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, src
}

func seedAsset(src *testutil.MockSource, id string, condition types.Condition) {
	purchased := testNow.AddDate(-3, 0, 0)
	src.PutAsset(types.AssetSnapshot{
		ID:           id,
		Name:         "Asset " + id,
		Condition:    condition,
		Status:       types.AssetOperational,
		PurchaseDate: &purchased,
	})
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t)

	var body map[string]string
	status := getJSON(t, ts.URL+"/api/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestGetAnalysis(t *testing.T) {
	ts, src := setupTestServer(t)
	seedAsset(src, "a1", types.ConditionGood)

	var analysis types.HealthAnalysis
	status := getJSON(t, ts.URL+"/api/assets/a1/analysis", &analysis)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a1", analysis.Asset.ID)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestGetAnalysis_NotFound(t *testing.T) {
	ts, _ := setupTestServer(t)

	status := getJSON(t, ts.URL+"/api/assets/ghost/analysis", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListFleet(t *testing.T) {
	ts, src := setupTestServer(t)
	seedAsset(src, "a1", types.ConditionGood)
	seedAsset(src, "a2", types.ConditionCritical)

	var analyses []types.HealthAnalysis
	status := getJSON(t, ts.URL+"/api/fleet", &analyses)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, analyses, 2)
	// Sorted descending by risk.
	assert.Equal(t, "a2", analyses[0].Asset.ID)
}

func TestListFleet_EmptyIsArray(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/api/fleet")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body []types.HealthAnalysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body)
	assert.Empty(t, body)
}

func TestListHighRisk_ThresholdValidation(t *testing.T) {
	ts, _ := setupTestServer(t)

	status := getJSON(t, ts.URL+"/api/fleet/high-risk?threshold=2", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = getJSON(t, ts.URL+"/api/fleet/high-risk?threshold=0.5", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestGetSchedule_DaysValidation(t *testing.T) {
	ts, _ := setupTestServer(t)

	status := getJSON(t, ts.URL+"/api/fleet/schedule?days=-1", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = getJSON(t, ts.URL+"/api/fleet/schedule?days=60", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestGetDashboard(t *testing.T) {
	ts, src := setupTestServer(t)
	seedAsset(src, "a1", types.ConditionGood)

	var dashboard types.DashboardSummary
	status := getJSON(t, ts.URL+"/api/fleet/dashboard", &dashboard)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, dashboard.TotalAssets)
}

func TestGetWorkload(t *testing.T) {
	ts, src := setupTestServer(t)
	src.PutTechnician(types.TechnicianSnapshot{ID: "t1", Name: "Sam", Active: true})

	var entries []types.WorkloadEntry
	status := getJSON(t, ts.URL+"/api/team/workload", &entries)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, entries, 1)
	assert.Equal(t, "t1", entries[0].Technician.ID)
}

func TestAssignWorkOrder(t *testing.T) {
	ts, src := setupTestServer(t)
	src.PutTechnician(types.TechnicianSnapshot{ID: "t1", Name: "Sam", Active: true})
	src.PutWorkOrder(types.WorkOrder{ID: "wo1", Status: types.RequestSubmitted, Priority: types.PriorityHigh, CreatedAt: testNow})

	resp, err := http.Post(ts.URL+"/api/workorders/wo1/assign", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var decision types.AssignmentDecision
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decision))
	assert.Equal(t, "t1", decision.TechnicianID)
}

func TestAssignWorkOrder_Conflict(t *testing.T) {
	ts, src := setupTestServer(t)
	src.PutWorkOrder(types.WorkOrder{ID: "wo1", Status: types.RequestAssigned, AssigneeID: "t9", CreatedAt: testNow})

	resp, err := http.Post(ts.URL+"/api/workorders/wo1/assign", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAssignWorkOrder_NotFound(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := http.Post(ts.URL+"/api/workorders/ghost/assign", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftRequest(t *testing.T) {
	ts, src := setupTestServer(t)
	seedAsset(src, "a1", types.ConditionPoor)
	src.PutTechnician(types.TechnicianSnapshot{ID: "t1", Name: "Sam", Active: true})

	resp, err := http.Post(ts.URL+"/api/assets/a1/draft?assign=true", "application/json", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var draft types.DraftRequest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&draft))
	assert.Equal(t, "a1", draft.AssetID)
	require.NotNil(t, draft.Assignment)
	assert.Equal(t, "t1", draft.Assignment.TechnicianID)
}

func TestGetInsights(t *testing.T) {
	ts, src := setupTestServer(t)
	seedAsset(src, "a1", types.ConditionGood)

	var insights types.Insights
	status := getJSON(t, ts.URL+"/api/insights", &insights)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, insights.Dashboard.TotalAssets)
	assert.NotEmpty(t, insights.Recommendations)
}

func TestGetTrends(t *testing.T) {
	ts, src := setupTestServer(t)
	seedAsset(src, "a1", types.ConditionGood)

	var trends types.AssetTrends
	status := getJSON(t, ts.URL+"/api/assets/a1/trends", &trends)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Insufficient data", trends.FrequencyTrend)
}
