package provider

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/gantryhq/gantry/pkg/types"
)

// Breaker defaults.
const (
	defaultMaxFailures = 5
	defaultCooldown    = 30 * time.Second
)

// BreakerSource wraps an AssetSource with a circuit breaker so a failing
// backend trips fast during fleet sweeps instead of stalling every asset.
type BreakerSource struct {
	inner AssetSource
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerSource creates a circuit-breaking AssetSource decorator.
func NewBreakerSource(inner AssetSource, cfg *types.BreakerConfig) *BreakerSource {
	maxFailures := uint32(defaultMaxFailures)
	cooldown := defaultCooldown
	if cfg != nil {
		if cfg.MaxFailures > 0 {
			maxFailures = uint32(cfg.MaxFailures)
		}
		if d, err := time.ParseDuration(cfg.Cooldown); err == nil && d > 0 {
			cooldown = d
		}
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "asset-source",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// NotFound is a data condition, not a backend failure.
			return err == nil || IsNotFound(err)
		},
	})
	return &BreakerSource{inner: inner, cb: cb}
}

// GetAsset delegates through the breaker.
func (b *BreakerSource) GetAsset(ctx context.Context, id string) (*types.AssetSnapshot, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.GetAsset(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return out.(*types.AssetSnapshot), nil
}

// GetHistory delegates through the breaker.
func (b *BreakerSource) GetHistory(ctx context.Context, assetID string) ([]types.MaintenanceEvent, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.GetHistory(ctx, assetID)
	})
	if err != nil {
		return nil, err
	}
	return out.([]types.MaintenanceEvent), nil
}

// ListAssets delegates through the breaker.
func (b *BreakerSource) ListAssets(ctx context.Context, scope string) ([]types.AssetSnapshot, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.ListAssets(ctx, scope)
	})
	if err != nil {
		return nil, err
	}
	return out.([]types.AssetSnapshot), nil
}
