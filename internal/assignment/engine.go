package assignment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gantryhq/gantry/internal/audit"
	"github.com/gantryhq/gantry/internal/metrics"
	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/pkg/types"
)

// Rebalancing thresholds relative to the team's mean active load.
const (
	overloadedFactor  = 1.5
	underloadedFactor = 0.75

	// maxMovesPerDonor caps how many orders one sweep moves off a single
	// overloaded technician.
	maxMovesPerDonor = 2

	standoutMargin = 10 // points above field average worth calling out
)

// Engine assigns work orders and balances team workload.
type Engine struct {
	techs     provider.TechnicianDirectory
	orders    provider.WorkOrderSource
	ranker    *Ranker
	observers audit.Observers
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithObservers attaches audit observers.
func WithObservers(obs audit.Observers) Option {
	return func(e *Engine) { e.observers = obs }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine.
func New(techs provider.TechnicianDirectory, orders provider.WorkOrderSource, opts ...Option) *Engine {
	e := &Engine{
		techs:  techs,
		orders: orders,
		ranker: NewRanker(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AssignBest picks the best technician for a stored work order. Unknown
// orders fail with provider.ErrNotFound; already-assigned orders fail with
// provider.ErrConflict.
func (e *Engine) AssignBest(ctx context.Context, workOrderID string) (*types.AssignmentDecision, error) {
	order, err := e.orders.GetWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("loading work order %q: %w", workOrderID, err)
	}
	if order.AssigneeID != "" {
		metrics.AssignmentConflicts.Add(1)
		return nil, fmt.Errorf("work order %q already assigned to %q: %w", workOrderID, order.AssigneeID, provider.ErrConflict)
	}
	return e.BestFor(ctx, *order)
}

// BestFor picks the best technician for a work order that need not be stored
// yet, such as a freshly drafted preventive request. An empty roster yields a
// NoCandidate decision, not an error.
func (e *Engine) BestFor(ctx context.Context, order types.WorkOrder) (*types.AssignmentDecision, error) {
	techs, err := e.techs.ListActiveTechnicians(ctx, order.Scope)
	if err != nil {
		return nil, fmt.Errorf("listing technicians: %w", err)
	}

	now := e.now()
	if len(techs) == 0 {
		metrics.AssignmentNoCandidate.Add(1)
		e.observers.Emit(ctx, types.Event{
			Kind:      types.EventAssignmentNoCandidate,
			OrderID:   order.ID,
			Message:   "no active technicians available",
			Timestamp: now,
		})
		return &types.AssignmentDecision{
			WorkOrderID: order.ID,
			Reasoning:   "No active technicians available for assignment.",
			NoCandidate: true,
			DecidedAt:   now,
		}, nil
	}

	scores := make([]types.AssignmentScore, 0, len(techs))
	var total float64
	for _, tech := range techs {
		s := e.ranker.Score(tech, order)
		scores = append(scores, s)
		total += s.Score
	}

	// First maximum wins ties, keeping the provider's listing order
	// authoritative.
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}

	decision := &types.AssignmentDecision{
		WorkOrderID:    order.ID,
		TechnicianID:   best.Technician.ID,
		TechnicianName: best.Technician.Name,
		Score:          best.Score,
		Reasoning:      assignmentReasoning(best, total/float64(len(scores)), len(scores)),
		Candidates:     len(scores),
		DecidedAt:      now,
	}

	metrics.AssignmentsTotal.Add(1)
	e.observers.Emit(ctx, types.Event{
		Kind:         types.EventAssignmentDecided,
		OrderID:      order.ID,
		TechnicianID: best.Technician.ID,
		Message:      decision.Reasoning,
		Details:      map[string]interface{}{"score": best.Score, "candidates": len(scores)},
		Timestamp:    now,
	})
	return decision, nil
}

// WorkloadDistribution returns the team roster with availability and tier,
// lightest load first.
func (e *Engine) WorkloadDistribution(ctx context.Context, scope string) ([]types.WorkloadEntry, error) {
	techs, err := e.techs.ListActiveTechnicians(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listing technicians: %w", err)
	}

	entries := make([]types.WorkloadEntry, 0, len(techs))
	for _, tech := range techs {
		entries = append(entries, types.WorkloadEntry{
			Technician:        tech,
			Availability:      Availability(tech),
			Tier:              types.WorkloadTierFor(tech.ActiveRequests),
			AvgCompletionDays: tech.AvgCompletionDays,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Technician.ActiveRequests < entries[j].Technician.ActiveRequests
	})
	return entries, nil
}

// RecommendReassignments proposes moving open work orders from overloaded
// technicians (more than 1.5x the mean active load) to underloaded ones
// (under 0.75x the mean). Receiver loads are tracked across proposals within
// one sweep so a single technician is not flooded.
func (e *Engine) RecommendReassignments(ctx context.Context, scope string) ([]types.ReassignmentRecommendation, error) {
	techs, err := e.techs.ListActiveTechnicians(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listing technicians: %w", err)
	}
	if len(techs) < 2 {
		return nil, nil
	}

	var totalLoad int
	for _, t := range techs {
		totalLoad += t.ActiveRequests
	}
	mean := float64(totalLoad) / float64(len(techs))
	if mean == 0 {
		return nil, nil
	}

	loads := make(map[string]int, len(techs))
	names := make(map[string]string, len(techs))
	for _, t := range techs {
		loads[t.ID] = t.ActiveRequests
		names[t.ID] = t.Name
	}

	var donors []types.TechnicianSnapshot
	for _, t := range techs {
		if float64(t.ActiveRequests) > overloadedFactor*mean {
			donors = append(donors, t)
		}
	}
	sort.SliceStable(donors, func(i, j int) bool {
		return donors[i].ActiveRequests > donors[j].ActiveRequests
	})

	var recs []types.ReassignmentRecommendation
	for _, donor := range donors {
		open, err := e.orders.ListOpenAssignedTo(ctx, donor.ID)
		if err != nil {
			return nil, fmt.Errorf("listing open orders for %q: %w", donor.ID, err)
		}
		moves := 0
		for _, order := range open {
			if moves >= maxMovesPerDonor {
				break
			}
			receiver, ok := e.pickReceiver(techs, loads, mean, donor.ID)
			if !ok {
				break
			}
			recs = append(recs, types.ReassignmentRecommendation{
				WorkOrderID:    order.ID,
				WorkOrderTitle: order.Title,
				Priority:       order.Priority,
				FromID:         donor.ID,
				FromName:       donor.Name,
				FromLoad:       donor.ActiveRequests,
				ToID:           receiver,
				ToName:         names[receiver],
				ToLoad:         loads[receiver],
				Reason: fmt.Sprintf("%s carries %d active requests against a team average of %.1f; %s has capacity at %d.",
					donor.Name, donor.ActiveRequests, mean, names[receiver], loads[receiver]),
			})
			loads[receiver]++
			moves++

			metrics.ReassignmentsProposed.Add(1)
			e.observers.Emit(ctx, types.Event{
				Kind:         types.EventReassignmentProposed,
				OrderID:      order.ID,
				TechnicianID: receiver,
				Message:      fmt.Sprintf("move %s from %s to %s", order.ID, donor.Name, names[receiver]),
				Timestamp:    e.now(),
			})
		}
	}
	return recs, nil
}

// pickReceiver returns the least-loaded technician still under the
// underloaded threshold, evaluated against the tracked loads.
func (e *Engine) pickReceiver(techs []types.TechnicianSnapshot, loads map[string]int, mean float64, donorID string) (string, bool) {
	bestID := ""
	bestLoad := 0
	for _, t := range techs {
		if t.ID == donorID {
			continue
		}
		load := loads[t.ID]
		if float64(load) >= underloadedFactor*mean {
			continue
		}
		if bestID == "" || load < bestLoad {
			bestID = t.ID
			bestLoad = load
		}
	}
	return bestID, bestID != ""
}

func assignmentReasoning(best types.AssignmentScore, fieldAvg float64, candidates int) string {
	r := fmt.Sprintf("Best fit of %d candidates: %d active requests, %.0f%% recent completion rate, availability %.1f.",
		candidates, best.Workload, best.Technician.CompletionRate*100, best.Availability)
	if candidates > 1 && best.Score-fieldAvg > standoutMargin {
		r += fmt.Sprintf(" Score %.1f is more than %d points above the field average.", best.Score, standoutMargin)
	}
	return r
}
