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

func (s *Source) orderKey(id string) string {
	return s.prefix + "order:" + id
}

func (s *Source) assigneeKey(techID string) string {
	return s.prefix + "orders:tech:" + techID
}

// PutWorkOrder stores an externally-landed work order and maintains the
// per-assignee index.
func (s *Source) PutWorkOrder(ctx context.Context, order types.WorkOrder) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.orderKey(order.ID), raw, 0).Err(); err != nil {
		return err
	}
	if order.AssigneeID != "" {
		return s.client.SAdd(ctx, s.assigneeKey(order.AssigneeID), order.ID).Err()
	}
	return nil
}

// GetWorkOrder returns the work order, or provider.ErrNotFound.
func (s *Source) GetWorkOrder(ctx context.Context, id string) (*types.WorkOrder, error) {
	raw, err := s.client.Get(ctx, s.orderKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("work order %q: %w", id, provider.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var order types.WorkOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOpenAssignedTo returns a technician's open work orders via the
// per-assignee index, lowest priority first.
func (s *Source) ListOpenAssignedTo(ctx context.Context, techID string) ([]types.WorkOrder, error) {
	ids, err := s.client.SMembers(ctx, s.assigneeKey(techID)).Result()
	if err != nil {
		return nil, err
	}

	var open []types.WorkOrder
	for _, id := range ids {
		order, err := s.GetWorkOrder(ctx, id)
		if provider.IsNotFound(err) {
			continue // index lag after deletion
		}
		if err != nil {
			return nil, err
		}
		if order.AssigneeID == techID && order.Status.IsOpen() {
			open = append(open, *order)
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
