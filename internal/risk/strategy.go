// Package risk implements failure-risk prediction strategies.
package risk

import (
	"errors"
	"fmt"
	"time"

	"github.com/gantryhq/gantry/pkg/types"
)

// Strategy names selectable via configuration.
const (
	StrategyRuleBased = "rule-based"
	StrategyLearned   = "learned"
)

// ErrStrategyUnavailable is returned when a known strategy has no usable
// implementation yet.
var ErrStrategyUnavailable = errors.New("prediction strategy unavailable")

// Strategy produces a failure prediction for one asset from its snapshot and
// ordered maintenance history. Implementations must be pure: identical inputs
// (including now) yield identical output.
type Strategy interface {
	Name() string
	Predict(asset types.AssetSnapshot, history []types.MaintenanceEvent, now time.Time) types.PredictionResult
}

// NewStrategy resolves a strategy by name. The "learned" slot is reserved for
// a future model-backed implementation; selecting it fails with
// ErrStrategyUnavailable until one exists.
func NewStrategy(name string, weights *types.RiskWeights) (Strategy, error) {
	switch name {
	case "", StrategyRuleBased:
		return NewRuleBased(weights), nil
	case StrategyLearned:
		return nil, fmt.Errorf("strategy %q: %w", name, ErrStrategyUnavailable)
	default:
		return nil, fmt.Errorf("unknown prediction strategy %q", name)
	}
}
