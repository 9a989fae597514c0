// Package testutil provides shared test doubles for the provider interfaces.
package testutil

import (
	"context"
	"sync"

	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/internal/provider/memory"
	"github.com/gantryhq/gantry/pkg/types"
)

// Compile-time interface satisfaction check.
var _ provider.Source = (*MockSource)(nil)

// MockSource wraps the in-memory backend with per-call error injection and
// call counting. Seed it through the embedded memory.Source.
type MockSource struct {
	*memory.Source

	mu sync.Mutex

	// Errors returned instead of delegating, keyed by ID. A lookup that has
	// no injected error falls through to the in-memory data.
	GetAssetErr    map[string]error
	GetHistoryErr  map[string]error
	GetWorkloadErr map[string]error

	// ListAssetsErr, when set, fails every ListAssets call.
	ListAssetsErr error

	// Calls counts invocations by method name.
	Calls map[string]int
}

// NewMockSource creates an empty mock backed by a fresh in-memory source.
func NewMockSource() *MockSource {
	return &MockSource{
		Source:         memory.New(),
		GetAssetErr:    make(map[string]error),
		GetHistoryErr:  make(map[string]error),
		GetWorkloadErr: make(map[string]error),
		Calls:          make(map[string]int),
	}
}

func (m *MockSource) count(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method]++
}

// CallCount returns how many times the named method was invoked.
func (m *MockSource) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

func (m *MockSource) GetAsset(ctx context.Context, id string) (*types.AssetSnapshot, error) {
	m.count("GetAsset")
	if err := m.GetAssetErr[id]; err != nil {
		return nil, err
	}
	return m.Source.GetAsset(ctx, id)
}

func (m *MockSource) GetHistory(ctx context.Context, assetID string) ([]types.MaintenanceEvent, error) {
	m.count("GetHistory")
	if err := m.GetHistoryErr[assetID]; err != nil {
		return nil, err
	}
	return m.Source.GetHistory(ctx, assetID)
}

func (m *MockSource) ListAssets(ctx context.Context, scope string) ([]types.AssetSnapshot, error) {
	m.count("ListAssets")
	if m.ListAssetsErr != nil {
		return nil, m.ListAssetsErr
	}
	return m.Source.ListAssets(ctx, scope)
}

func (m *MockSource) GetWorkload(ctx context.Context, techID string) (*types.WorkloadCounts, error) {
	m.count("GetWorkload")
	if err := m.GetWorkloadErr[techID]; err != nil {
		return nil, err
	}
	return m.Source.GetWorkload(ctx, techID)
}

// CollectObserver records emitted events for assertions.
type CollectObserver struct {
	mu     sync.Mutex
	events []types.Event
}

// Name returns the observer identifier.
func (c *CollectObserver) Name() string { return "collect" }

// Observe records the event.
func (c *CollectObserver) Observe(_ context.Context, event types.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of the recorded events.
func (c *CollectObserver) Events() []types.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]types.Event, len(c.events))
	copy(out, c.events)
	return out
}

// EventsOfKind returns recorded events matching the kind.
func (c *CollectObserver) EventsOfKind(kind types.EventKind) []types.Event {
	var out []types.Event
	for _, e := range c.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
