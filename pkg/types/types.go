package types

import "time"

// AssetSnapshot is an immutable view of an asset at analysis time.
type AssetSnapshot struct {
	ID           string      `yaml:"id" json:"id"`
	Name         string      `yaml:"name" json:"name"`
	Category     string      `yaml:"category,omitempty" json:"category,omitempty"`
	Condition    Condition   `yaml:"condition" json:"condition"`
	Status       AssetStatus `yaml:"status" json:"status"`
	PurchaseDate *time.Time  `yaml:"purchaseDate,omitempty" json:"purchaseDate,omitempty"`
	Location     string      `yaml:"location,omitempty" json:"location,omitempty"`
	Scope        string      `yaml:"scope,omitempty" json:"scope,omitempty"`
}

// AgeYears returns the asset age in fractional years at the given time,
// or 0 if the purchase date is unknown.
func (a AssetSnapshot) AgeYears(now time.Time) float64 {
	if a.PurchaseDate == nil {
		return 0
	}
	return now.Sub(*a.PurchaseDate).Hours() / (24 * 365.25)
}

// MaintenanceEvent is one historical work item tied to an asset. History for
// an asset is ordered by CreatedAt; interval computations depend on it.
type MaintenanceEvent struct {
	ID          string        `yaml:"id" json:"id"`
	AssetID     string        `yaml:"assetId" json:"assetId"`
	CreatedAt   time.Time     `yaml:"createdAt" json:"createdAt"`
	CompletedAt *time.Time    `yaml:"completedAt,omitempty" json:"completedAt,omitempty"`
	Status      RequestStatus `yaml:"status" json:"status"`
	Priority    Priority      `yaml:"priority" json:"priority"`
}

// RiskFactors holds the four named sub-scores, each in [0,1].
type RiskFactors struct {
	TimeBased float64 `json:"timeBased"`
	Frequency float64 `json:"frequency"`
	Condition float64 `json:"condition"`
	Age       float64 `json:"age"`
}

// PredictionResult is the output of a failure prediction. Produced fresh on
// every call; never persisted by the core.
type PredictionResult struct {
	RiskScore            float64     `json:"riskScore"`
	PredictedFailureDate *time.Time  `json:"predictedFailureDate,omitempty"`
	Confidence           float64     `json:"confidence"`
	Reasoning            string      `json:"reasoning"`
	RecommendedAction    string      `json:"recommendedAction"`
	Factors              RiskFactors `json:"riskFactors"`
}

// MaintenanceSummary aggregates an asset's maintenance history over trailing
// windows.
type MaintenanceSummary struct {
	TotalEvents       int        `json:"totalEvents"`
	Last30Days        int        `json:"last30Days"`
	Last90Days        int        `json:"last90Days"`
	AvgResolutionDays float64    `json:"avgResolutionDays"`
	LastEventAt       *time.Time `json:"lastEventAt,omitempty"`
}

// HealthAnalysis is the composite per-asset analysis result. Transient,
// computed on demand.
type HealthAnalysis struct {
	Asset           AssetSnapshot      `json:"asset"`
	HealthScore     float64            `json:"healthScore"`
	Prediction      PredictionResult   `json:"prediction"`
	Summary         MaintenanceSummary `json:"maintenanceSummary"`
	Recommendations []string           `json:"recommendations"`
	AnalyzedAt      time.Time          `json:"analyzedAt"`
}

// TechnicianSnapshot is a point-in-time view of a technician and their load.
// AvgCompletionDays is computed over the technician's last 20 completed
// work orders.
type TechnicianSnapshot struct {
	ID                  string  `yaml:"id" json:"id"`
	Name                string  `yaml:"name" json:"name"`
	Active              bool    `yaml:"active" json:"active"`
	ActiveRequests      int     `yaml:"activeRequests" json:"activeRequests"`
	PendingRequests     int     `yaml:"pendingRequests" json:"pendingRequests"`
	InProgressRequests  int     `yaml:"inProgressRequests" json:"inProgressRequests"`
	CompletedLast30Days int     `yaml:"completedLast30Days" json:"completedLast30Days"`
	CompletionRate      float64 `yaml:"completionRate" json:"completionRate"`
	AvgCompletionDays   float64 `yaml:"avgCompletionDays" json:"avgCompletionDays"`
	Scope               string  `yaml:"scope,omitempty" json:"scope,omitempty"`
}

// WorkloadCounts are a technician's current request counts.
type WorkloadCounts struct {
	Active              int `json:"active"`
	Pending             int `json:"pending"`
	InProgress          int `json:"inProgress"`
	CompletedLast30Days int `json:"completedLast30Days"`
}

// WorkOrder is a repair work item awaiting or under assignment.
type WorkOrder struct {
	ID          string        `yaml:"id" json:"id"`
	AssetID     string        `yaml:"assetId,omitempty" json:"assetId,omitempty"`
	Title       string        `yaml:"title" json:"title"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Status      RequestStatus `yaml:"status" json:"status"`
	Priority    Priority      `yaml:"priority" json:"priority"`
	AssigneeID  string        `yaml:"assigneeId,omitempty" json:"assigneeId,omitempty"`
	CreatedAt   time.Time     `yaml:"createdAt" json:"createdAt"`
	CompletedAt *time.Time    `yaml:"completedAt,omitempty" json:"completedAt,omitempty"`
	Scope       string        `yaml:"scope,omitempty" json:"scope,omitempty"`
}

// AssignmentScore pairs a technician with their fitness score for one work
// order. Transient.
type AssignmentScore struct {
	Technician   TechnicianSnapshot `json:"technician"`
	Score        float64            `json:"score"`
	Workload     int                `json:"workload"`
	Availability float64            `json:"availability"`
}

// AssignmentDecision is the outcome of picking the best technician for a
// work order. NoCandidate is set instead of an error when no active
// technicians exist.
type AssignmentDecision struct {
	WorkOrderID    string    `json:"workOrderId"`
	TechnicianID   string    `json:"technicianId,omitempty"`
	TechnicianName string    `json:"technicianName,omitempty"`
	Score          float64   `json:"score,omitempty"`
	Reasoning      string    `json:"reasoning"`
	Candidates     int       `json:"candidates"`
	NoCandidate    bool      `json:"noCandidate,omitempty"`
	DecidedAt      time.Time `json:"decidedAt"`
}

// WorkloadEntry is one row of the team workload distribution.
type WorkloadEntry struct {
	Technician        TechnicianSnapshot `json:"technician"`
	Availability      float64            `json:"availability"`
	Tier              WorkloadTier       `json:"tier"`
	AvgCompletionDays float64            `json:"avgCompletionDays"`
}

// ReassignmentRecommendation proposes moving one open work order from an
// overloaded technician to an underloaded one. Applying it is an external
// write operation.
type ReassignmentRecommendation struct {
	WorkOrderID    string   `json:"workOrderId"`
	WorkOrderTitle string   `json:"workOrderTitle,omitempty"`
	Priority       Priority `json:"priority"`
	FromID         string   `json:"fromTechnicianId"`
	FromName       string   `json:"fromTechnicianName"`
	FromLoad       int      `json:"fromLoad"`
	ToID           string   `json:"toTechnicianId"`
	ToName         string   `json:"toTechnicianName"`
	ToLoad         int      `json:"toLoad"`
	Reason         string   `json:"reason"`
}

// ScheduleItem is one entry of the predicted maintenance calendar.
type ScheduleItem struct {
	AssetID   string    `json:"assetId"`
	AssetName string    `json:"assetName"`
	Location  string    `json:"location,omitempty"`
	Date      time.Time `json:"date"`
	RiskScore float64   `json:"riskScore"`
	Priority  Priority  `json:"priority"`
	Action    string    `json:"action"`
	Reasoning string    `json:"reasoning"`
	DaysUntil int       `json:"daysUntil"`
}

// HealthHistogram counts assets per health band.
type HealthHistogram struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
	Critical  int `json:"critical"`
}

// DashboardSummary aggregates fleet analyses for dashboarding.
type DashboardSummary struct {
	TotalAssets     int             `json:"totalAssets"`
	CriticalRisk    int             `json:"criticalRisk"`
	HighRisk        int             `json:"highRisk"`
	MediumRisk      int             `json:"mediumRisk"`
	LowRisk         int             `json:"lowRisk"`
	AverageHealth   float64         `json:"averageHealth"`
	DueWithin30Days int             `json:"dueWithin30Days"`
	Histogram       HealthHistogram `json:"healthHistogram"`
}

// FleetOverview combines fleet health, team workload, and the near-term
// maintenance schedule.
type FleetOverview struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Dashboard   DashboardSummary `json:"dashboard"`
	Fleet       []HealthAnalysis `json:"fleet"`
	Workload    []WorkloadEntry  `json:"workload"`
	Schedule    []ScheduleItem   `json:"schedule"`
}

// AssetTrends carries per-asset historical trend labels. Labels are one of
// "Increasing", "Decreasing", "Stable", or "Insufficient data".
type AssetTrends struct {
	AssetID        string `json:"assetId"`
	EventCount     int    `json:"eventCount"`
	FrequencyTrend string `json:"frequencyTrend"`
	IntervalTrend  string `json:"intervalTrend"`
}

// WorkloadStatus summarizes team capacity for the insights bundle.
type WorkloadStatus struct {
	Technicians int    `json:"technicians"`
	Available   int    `json:"available"`
	Overloaded  int    `json:"overloaded"`
	Summary     string `json:"summary"`
}

// Insights is the decision-support bundle produced by the orchestrator.
// Trends holds the historical trend labels for the top-risk assets, keyed
// by asset ID.
type Insights struct {
	GeneratedAt     time.Time                 `json:"generatedAt"`
	Dashboard       DashboardSummary          `json:"dashboard"`
	Recommendations []string                  `json:"recommendations"`
	Alerts          []string                  `json:"alerts"`
	TopRisks        []HealthAnalysis          `json:"topRisks"`
	Trends          map[string]AssetTrends    `json:"trends,omitempty"`
	Calendar        map[string][]ScheduleItem `json:"calendar"`
	Workload        WorkloadStatus            `json:"workload"`
}

// DraftRequest is a preventive-maintenance work order draft built from a
// HealthAnalysis. The core never persists it.
type DraftRequest struct {
	ID          string              `json:"id"`
	AssetID     string              `json:"assetId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    Priority            `json:"priority"`
	CreatedAt   time.Time           `json:"createdAt"`
	Assignment  *AssignmentDecision `json:"assignment,omitempty"`
}

// Alert represents an alert event to be dispatched.
type Alert struct {
	Level     AlertLevel             `json:"level"`
	AssetID   string                 `json:"assetId,omitempty"`
	OrderID   string                 `json:"workOrderId,omitempty"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Event is an audit record of a computation the core performed.
type Event struct {
	Kind         EventKind              `json:"kind"`
	AssetID      string                 `json:"assetId,omitempty"`
	OrderID      string                 `json:"workOrderId,omitempty"`
	TechnicianID string                 `json:"technicianId,omitempty"`
	Message      string                 `json:"message,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
}
