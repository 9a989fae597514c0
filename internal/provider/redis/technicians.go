package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/pkg/types"
)

func (s *Source) techKey(id string) string {
	return s.prefix + "tech:" + id
}

// PutTechnician stores an externally-landed technician snapshot. The upstream
// sync maintains the workload counters on the snapshot.
func (s *Source) PutTechnician(ctx context.Context, tech types.TechnicianSnapshot) error {
	raw, err := json.Marshal(tech)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.techKey(tech.ID), raw, 0).Err()
}

// ListActiveTechnicians scans the roster and returns active technicians in
// scope, ordered by ID.
func (s *Source) ListActiveTechnicians(ctx context.Context, scope string) ([]types.TechnicianSnapshot, error) {
	var techs []types.TechnicianSnapshot
	iter := s.client.Scan(ctx, 0, s.prefix+"tech:*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var tech types.TechnicianSnapshot
		if err := json.Unmarshal(raw, &tech); err != nil {
			return nil, err
		}
		if !tech.Active {
			continue
		}
		if scope != "" && tech.Scope != scope {
			continue
		}
		techs = append(techs, tech)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning technicians: %w", err)
	}
	sort.Slice(techs, func(i, j int) bool { return techs[i].ID < techs[j].ID })
	return techs, nil
}

// GetWorkload returns the technician's current request counts.
func (s *Source) GetWorkload(ctx context.Context, techID string) (*types.WorkloadCounts, error) {
	tech, err := s.getTechnician(ctx, techID)
	if err != nil {
		return nil, err
	}
	return &types.WorkloadCounts{
		Active:              tech.ActiveRequests,
		Pending:             tech.PendingRequests,
		InProgress:          tech.InProgressRequests,
		CompletedLast30Days: tech.CompletedLast30Days,
	}, nil
}

// RecentCompletionRate returns the completion rate the upstream sync landed
// on the snapshot. The window is fixed by the sync, not by windowDays.
func (s *Source) RecentCompletionRate(ctx context.Context, techID string, _ int) (float64, error) {
	tech, err := s.getTechnician(ctx, techID)
	if err != nil {
		return 0, err
	}
	return tech.CompletionRate, nil
}

func (s *Source) getTechnician(ctx context.Context, techID string) (*types.TechnicianSnapshot, error) {
	raw, err := s.client.Get(ctx, s.techKey(techID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("technician %q: %w", techID, provider.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var tech types.TechnicianSnapshot
	if err := json.Unmarshal(raw, &tech); err != nil {
		return nil, err
	}
	return &tech, nil
}
