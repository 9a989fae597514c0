// Package types defines the public domain types for the Gantry predictive
// maintenance core.
package types

// Condition is the assessed physical condition of an asset, ordered from
// best to worst.
type Condition string

// Condition values enumerate the fixed condition grades.
const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
	ConditionCritical  Condition = "critical"
)

// AssetStatus is the operational status of an asset.
type AssetStatus string

// AssetStatus values enumerate the operational states.
const (
	AssetOperational AssetStatus = "operational"
	AssetDegraded    AssetStatus = "degraded"
	AssetDown        AssetStatus = "down"
	AssetRetired     AssetStatus = "retired"
)

// RequestStatus is the lifecycle state of a maintenance work order.
type RequestStatus string

// RequestStatus values enumerate the work order lifecycle states.
const (
	RequestSubmitted  RequestStatus = "submitted"
	RequestAssigned   RequestStatus = "assigned"
	RequestInProgress RequestStatus = "in_progress"
	RequestOnHold     RequestStatus = "on_hold"
	RequestCompleted  RequestStatus = "completed"
	RequestCancelled  RequestStatus = "cancelled"
)

// IsOpen reports whether the status counts toward a technician's active load.
func (s RequestStatus) IsOpen() bool {
	switch s {
	case RequestSubmitted, RequestAssigned, RequestInProgress, RequestOnHold:
		return true
	}
	return false
}

// Priority is the urgency of a work order.
type Priority string

// Priority values enumerate the supported urgency levels.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank returns a sortable ordinal for the priority, lowest urgency first.
// Unknown priorities sort between low and medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 1
	}
}

// RiskTier buckets a composite risk score for dashboards.
type RiskTier string

// RiskTier values enumerate the risk buckets.
const (
	RiskCritical RiskTier = "critical"
	RiskHigh     RiskTier = "high"
	RiskMedium   RiskTier = "medium"
	RiskLow      RiskTier = "low"
)

// RiskTierFor maps a [0,1] risk score to its tier.
func RiskTierFor(score float64) RiskTier {
	switch {
	case score >= 0.8:
		return RiskCritical
	case score >= 0.6:
		return RiskHigh
	case score >= 0.4:
		return RiskMedium
	default:
		return RiskLow
	}
}

// HealthBand buckets a [0,100] health score for histograms.
type HealthBand string

// HealthBand values enumerate the histogram buckets.
const (
	HealthExcellent HealthBand = "excellent"
	HealthGood      HealthBand = "good"
	HealthFair      HealthBand = "fair"
	HealthPoor      HealthBand = "poor"
	HealthCritical  HealthBand = "critical"
)

// HealthBandFor maps a health score to its histogram bucket.
func HealthBandFor(score float64) HealthBand {
	switch {
	case score >= 80:
		return HealthExcellent
	case score >= 60:
		return HealthGood
	case score >= 40:
		return HealthFair
	case score >= 20:
		return HealthPoor
	default:
		return HealthCritical
	}
}

// WorkloadTier is a categorical label for a technician's active load.
type WorkloadTier string

// WorkloadTier values enumerate the workload labels.
const (
	WorkloadAvailable  WorkloadTier = "Available"
	WorkloadLight      WorkloadTier = "Light"
	WorkloadModerate   WorkloadTier = "Moderate"
	WorkloadHeavy      WorkloadTier = "Heavy"
	WorkloadOverloaded WorkloadTier = "Overloaded"
)

// WorkloadTierFor maps an active request count to its tier.
func WorkloadTierFor(active int) WorkloadTier {
	switch {
	case active == 0:
		return WorkloadAvailable
	case active <= 2:
		return WorkloadLight
	case active <= 4:
		return WorkloadModerate
	case active <= 6:
		return WorkloadHeavy
	default:
		return WorkloadOverloaded
	}
}

// AlertType defines the alert sink type.
type AlertType string

// AlertType values enumerate the supported alert sink backends.
const (
	AlertConsole AlertType = "console"
	AlertWebhook AlertType = "webhook"
	AlertFile    AlertType = "file"
	AlertSNS     AlertType = "sns"
)

// AlertLevel is the severity of an alert.
type AlertLevel string

const (
	AlertLevelError   AlertLevel = "error"
	AlertLevelWarning AlertLevel = "warning"
	AlertLevelInfo    AlertLevel = "info"
)

// EventKind classifies the type of audit event.
type EventKind string

// EventKind values enumerate the categories of recorded events.
const (
	EventAssetAnalyzed         EventKind = "ASSET_ANALYZED"
	EventAssetSkipped          EventKind = "ASSET_SKIPPED"
	EventFleetAnalyzed         EventKind = "FLEET_ANALYZED"
	EventHighRiskDetected      EventKind = "HIGH_RISK_DETECTED"
	EventAssignmentDecided     EventKind = "ASSIGNMENT_DECIDED"
	EventAssignmentNoCandidate EventKind = "ASSIGNMENT_NO_CANDIDATE"
	EventReassignmentProposed  EventKind = "REASSIGNMENT_PROPOSED"
	EventDraftRequestCreated   EventKind = "DRAFT_REQUEST_CREATED"
)
