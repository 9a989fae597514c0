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

func (s *Source) assetKey(id string) string {
	return s.prefix + "asset:" + id
}

func (s *Source) historyKey(assetID string) string {
	return s.prefix + "history:" + assetID
}

// PutAsset stores an externally-landed asset snapshot.
func (s *Source) PutAsset(ctx context.Context, asset types.AssetSnapshot) error {
	raw, err := json.Marshal(asset)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.assetKey(asset.ID), raw, 0).Err()
}

// AddEvent appends a maintenance event to an asset's history list.
func (s *Source) AddEvent(ctx context.Context, event types.MaintenanceEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.historyKey(event.AssetID), raw).Err()
}

// GetAsset returns the asset snapshot, or provider.ErrNotFound.
func (s *Source) GetAsset(ctx context.Context, id string) (*types.AssetSnapshot, error) {
	raw, err := s.client.Get(ctx, s.assetKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("asset %q: %w", id, provider.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var asset types.AssetSnapshot
	if err := json.Unmarshal(raw, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetHistory returns the asset's events ordered by creation time. An unknown
// asset yields an empty history.
func (s *Source) GetHistory(ctx context.Context, assetID string) ([]types.MaintenanceEvent, error) {
	raws, err := s.client.LRange(ctx, s.historyKey(assetID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	events := make([]types.MaintenanceEvent, 0, len(raws))
	for _, raw := range raws {
		var e types.MaintenanceEvent
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

// ListAssets scans all asset keys and returns the snapshots in scope,
// ordered by ID.
func (s *Source) ListAssets(ctx context.Context, scope string) ([]types.AssetSnapshot, error) {
	var assets []types.AssetSnapshot
	iter := s.client.Scan(ctx, 0, s.prefix+"asset:*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Bytes()
		if errors.Is(err, goredis.Nil) {
			continue // deleted between scan and get
		}
		if err != nil {
			return nil, err
		}
		var asset types.AssetSnapshot
		if err := json.Unmarshal(raw, &asset); err != nil {
			return nil, err
		}
		if scope == "" || asset.Scope == scope {
			assets = append(assets, asset)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning assets: %w", err)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets, nil
}
