// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	AnalysesTotal         = expvar.NewInt("analyses_total")
	AnalysisErrors        = expvar.NewInt("analysis_errors")
	FleetSweepsTotal      = expvar.NewInt("fleet_sweeps_total")
	AssetsSkipped         = expvar.NewInt("assets_skipped")
	AssignmentsTotal      = expvar.NewInt("assignments_total")
	AssignmentConflicts   = expvar.NewInt("assignment_conflicts")
	AssignmentNoCandidate = expvar.NewInt("assignment_no_candidate")
	ReassignmentsProposed = expvar.NewInt("reassignments_proposed")
	DraftsCreated         = expvar.NewInt("drafts_created")
	AlertsDispatched      = expvar.NewInt("alerts_dispatched")
	AlertsFailed          = expvar.NewInt("alerts_failed")
	EventsArchived        = expvar.NewInt("events_archived")
)
