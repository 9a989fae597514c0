// Package provider defines the external data source interfaces the core
// consumes. Persistence, mutation, and tenant provisioning live behind these
// interfaces; the core only reads.
package provider

import (
	"context"
	"errors"

	"github.com/gantryhq/gantry/pkg/types"
)

// Sentinel errors surfaced to callers. Never retried internally.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// IsNotFound reports whether err is the ErrNotFound sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is the ErrConflict sentinel.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// AssetSource returns asset records and their ordered maintenance history.
type AssetSource interface {
	// GetAsset returns the asset snapshot, or ErrNotFound.
	GetAsset(ctx context.Context, id string) (*types.AssetSnapshot, error)
	// GetHistory returns the asset's maintenance events ordered by creation
	// time. An unknown asset yields an empty history, not an error.
	GetHistory(ctx context.Context, assetID string) ([]types.MaintenanceEvent, error)
	// ListAssets returns all assets in scope. Empty scope means all tenants.
	ListAssets(ctx context.Context, scope string) ([]types.AssetSnapshot, error)
}

// TechnicianDirectory returns technician records and workload counts.
type TechnicianDirectory interface {
	ListActiveTechnicians(ctx context.Context, scope string) ([]types.TechnicianSnapshot, error)
	GetWorkload(ctx context.Context, techID string) (*types.WorkloadCounts, error)
	// RecentCompletionRate returns the fraction of work orders assigned in
	// the trailing window that the technician completed, in [0,1].
	RecentCompletionRate(ctx context.Context, techID string, windowDays int) (float64, error)
}

// WorkOrderSource looks up repair work items pending assignment.
type WorkOrderSource interface {
	// GetWorkOrder returns the work order, or ErrNotFound.
	GetWorkOrder(ctx context.Context, id string) (*types.WorkOrder, error)
	// ListOpenAssignedTo returns a technician's open work orders, lowest
	// priority first.
	ListOpenAssignedTo(ctx context.Context, techID string) ([]types.WorkOrder, error)
}

// Source is a full backend implementing all three read interfaces.
type Source interface {
	AssetSource
	TechnicianDirectory
	WorkOrderSource

	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Ping(ctx context.Context) error
}
