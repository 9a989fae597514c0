// Package assignment picks technicians for work orders and balances team
// workload. All decisions are advisory; applying them is an external write.
package assignment

import (
	"github.com/gantryhq/gantry/pkg/types"
)

// Score components. Every candidate starts from the base; workload, urgency
// fit, completion history, and availability add on top, clamped to [0,100].
const (
	baseScore = 50

	completionWeight   = 15
	availabilityWeight = 10
)

// Ranker scores a technician's fitness for one work order.
type Ranker struct{}

// NewRanker creates a Ranker.
func NewRanker() *Ranker { return &Ranker{} }

// Score computes the fitness score for a technician and work order.
func (r *Ranker) Score(tech types.TechnicianSnapshot, order types.WorkOrder) types.AssignmentScore {
	load := tech.ActiveRequests
	avail := Availability(tech)

	score := float64(baseScore)
	score += workloadComponent(load)
	score += urgencyComponent(order.Priority, load)
	score += tech.CompletionRate * completionWeight
	score += avail * availabilityWeight

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return types.AssignmentScore{
		Technician:   tech,
		Score:        score,
		Workload:     load,
		Availability: avail,
	}
}

// workloadComponent rewards lighter current load.
func workloadComponent(load int) float64 {
	switch {
	case load == 0:
		return 30
	case load <= 2:
		return 25
	case load <= 4:
		return 20
	case load <= 6:
		return 15
	default:
		return 5
	}
}

// urgencyComponent rewards routing urgent work to technicians with headroom.
func urgencyComponent(priority types.Priority, load int) float64 {
	switch priority {
	case types.PriorityUrgent, types.PriorityHigh:
		switch {
		case load <= 2:
			return 25
		case load <= 4:
			return 15
		default:
			return 5
		}
	case types.PriorityMedium:
		if load <= 2 {
			return 20
		}
		return 10
	default:
		if load <= 2 {
			return 15
		}
		return 10
	}
}

// Availability maps a technician's active load to a 0-1 capacity factor.
// Inactive technicians are always 0.
func Availability(tech types.TechnicianSnapshot) float64 {
	if !tech.Active {
		return 0
	}
	switch load := tech.ActiveRequests; {
	case load == 0:
		return 1.0
	case load <= 2:
		return 0.8
	case load <= 4:
		return 0.6
	case load <= 6:
		return 0.4
	case load <= 8:
		return 0.2
	default:
		return 0.1
	}
}
