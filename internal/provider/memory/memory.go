// Package memory implements an in-memory Source, used for local runs and as
// the reference backend in tests. Technician workload metrics are derived
// from the seeded work orders, so the counts stay consistent with the data.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/pkg/types"
)

// Compile-time interface satisfaction check.
var _ provider.Source = (*Source)(nil)

const avgCompletionWindow = 20 // last N completed orders

// Source is an in-memory provider backend.
type Source struct {
	mu          sync.RWMutex
	assets      map[string]types.AssetSnapshot
	history     map[string][]types.MaintenanceEvent
	technicians map[string]types.TechnicianSnapshot
	techOrder   []string // insertion order for deterministic listings
	orders      map[string]types.WorkOrder
	now         func() time.Time
}

// New creates an empty in-memory source.
func New() *Source {
	return &Source{
		assets:      make(map[string]types.AssetSnapshot),
		history:     make(map[string][]types.MaintenanceEvent),
		technicians: make(map[string]types.TechnicianSnapshot),
		orders:      make(map[string]types.WorkOrder),
		now:         time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (s *Source) SetClock(now func() time.Time) { s.now = now }

// PutAsset seeds or replaces an asset.
func (s *Source) PutAsset(asset types.AssetSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[asset.ID] = asset
}

// AddEvent appends a maintenance event to an asset's history.
func (s *Source) AddEvent(event types.MaintenanceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[event.AssetID] = append(s.history[event.AssetID], event)
}

// PutTechnician seeds or replaces a technician.
func (s *Source) PutTechnician(tech types.TechnicianSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.technicians[tech.ID]; !ok {
		s.techOrder = append(s.techOrder, tech.ID)
	}
	s.technicians[tech.ID] = tech
}

// PutWorkOrder seeds or replaces a work order.
func (s *Source) PutWorkOrder(order types.WorkOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
}

// GetAsset returns the asset snapshot, or provider.ErrNotFound.
func (s *Source) GetAsset(_ context.Context, id string) (*types.AssetSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asset, ok := s.assets[id]
	if !ok {
		return nil, fmt.Errorf("asset %q: %w", id, provider.ErrNotFound)
	}
	return &asset, nil
}

// GetHistory returns the asset's events ordered by creation time.
func (s *Source) GetHistory(_ context.Context, assetID string) ([]types.MaintenanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]types.MaintenanceEvent, len(s.history[assetID]))
	copy(events, s.history[assetID])
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

// ListAssets returns all assets in scope, ordered by ID.
func (s *Source) ListAssets(_ context.Context, scope string) ([]types.AssetSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var assets []types.AssetSnapshot
	for _, a := range s.assets {
		if scope == "" || a.Scope == scope {
			assets = append(assets, a)
		}
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets, nil
}

// ListActiveTechnicians returns active technicians in scope with workload
// metrics derived from the seeded work orders.
func (s *Source) ListActiveTechnicians(_ context.Context, scope string) ([]types.TechnicianSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var techs []types.TechnicianSnapshot
	for _, id := range s.techOrder {
		t := s.technicians[id]
		if !t.Active {
			continue
		}
		if scope != "" && t.Scope != scope {
			continue
		}
		s.fillMetrics(&t)
		techs = append(techs, t)
	}
	return techs, nil
}

// GetWorkload returns the technician's current request counts.
func (s *Source) GetWorkload(_ context.Context, techID string) (*types.WorkloadCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.technicians[techID]
	if !ok {
		return nil, fmt.Errorf("technician %q: %w", techID, provider.ErrNotFound)
	}
	s.fillMetrics(&t)
	return &types.WorkloadCounts{
		Active:              t.ActiveRequests,
		Pending:             t.PendingRequests,
		InProgress:          t.InProgressRequests,
		CompletedLast30Days: t.CompletedLast30Days,
	}, nil
}

// RecentCompletionRate returns completed / (completed + still open) over the
// trailing window.
func (s *Source) RecentCompletionRate(_ context.Context, techID string, windowDays int) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.technicians[techID]; !ok {
		return 0, fmt.Errorf("technician %q: %w", techID, provider.ErrNotFound)
	}
	cutoff := s.now().AddDate(0, 0, -windowDays)
	var completed, total int
	for _, o := range s.orders {
		if o.AssigneeID != techID || o.CreatedAt.Before(cutoff) {
			continue
		}
		if o.Status == types.RequestCancelled {
			continue
		}
		total++
		if o.Status == types.RequestCompleted {
			completed++
		}
	}
	if total == 0 {
		return 1.0, nil
	}
	return float64(completed) / float64(total), nil
}

// GetWorkOrder returns a work order, or provider.ErrNotFound.
func (s *Source) GetWorkOrder(_ context.Context, id string) (*types.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("work order %q: %w", id, provider.ErrNotFound)
	}
	return &order, nil
}

// ListOpenAssignedTo returns a technician's open work orders, lowest
// priority first.
func (s *Source) ListOpenAssignedTo(_ context.Context, techID string) ([]types.WorkOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var open []types.WorkOrder
	for _, o := range s.orders {
		if o.AssigneeID == techID && o.Status.IsOpen() {
			open = append(open, o)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		if open[i].Priority.Rank() != open[j].Priority.Rank() {
			return open[i].Priority.Rank() < open[j].Priority.Rank()
		}
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})
	return open, nil
}

// Start is a no-op for the in-memory backend.
func (s *Source) Start(context.Context) error { return nil }

// Stop is a no-op for the in-memory backend.
func (s *Source) Stop(context.Context) error { return nil }

// Ping is a no-op for the in-memory backend.
func (s *Source) Ping(context.Context) error { return nil }

// fillMetrics derives workload counts, the 30-day completion count, the
// completion rate, and the average completion time from the work orders.
// Caller holds at least a read lock.
func (s *Source) fillMetrics(t *types.TechnicianSnapshot) {
	now := s.now()
	monthAgo := now.AddDate(0, 0, -30)

	var active, pending, inProgress, completed30 int
	var completions []types.WorkOrder
	var windowTotal, windowCompleted int

	for _, o := range s.orders {
		if o.AssigneeID != t.ID {
			continue
		}
		switch o.Status {
		case types.RequestSubmitted, types.RequestAssigned, types.RequestOnHold:
			pending++
			active++
		case types.RequestInProgress:
			inProgress++
			active++
		case types.RequestCompleted:
			completions = append(completions, o)
			if o.CompletedAt != nil && o.CompletedAt.After(monthAgo) {
				completed30++
			}
		}
		if o.Status != types.RequestCancelled && !o.CreatedAt.Before(monthAgo) {
			windowTotal++
			if o.Status == types.RequestCompleted {
				windowCompleted++
			}
		}
	}

	t.ActiveRequests = active
	t.PendingRequests = pending
	t.InProgressRequests = inProgress
	t.CompletedLast30Days = completed30

	if windowTotal > 0 {
		t.CompletionRate = float64(windowCompleted) / float64(windowTotal)
	} else if t.CompletionRate == 0 {
		t.CompletionRate = 1.0
	}

	// Average completion days over the most recent completions.
	sort.SliceStable(completions, func(i, j int) bool {
		return completions[i].CreatedAt.After(completions[j].CreatedAt)
	})
	if len(completions) > avgCompletionWindow {
		completions = completions[:avgCompletionWindow]
	}
	var totalDays float64
	var n int
	for _, o := range completions {
		if o.CompletedAt == nil {
			continue
		}
		totalDays += o.CompletedAt.Sub(o.CreatedAt).Hours() / 24
		n++
	}
	if n > 0 {
		t.AvgCompletionDays = totalDays / float64(n)
	}
}
