// Package audit records what the core computed. The original system routed
// these through a process-wide event bus; here observers are an explicitly
// passed list so the core stays pure and testable.
package audit

import (
	"context"
	"log/slog"

	"github.com/gantryhq/gantry/pkg/types"
)

// Observer receives audit events. Implementations must not block the caller
// for long; the core emits events synchronously.
type Observer interface {
	Observe(ctx context.Context, event types.Event)
	Name() string
}

// Observers is an explicitly-passed observer list.
type Observers []Observer

// Emit delivers the event to every observer.
func (o Observers) Emit(ctx context.Context, event types.Event) {
	for _, obs := range o {
		obs.Observe(ctx, event)
	}
}

// LogObserver writes audit events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver. A nil logger uses slog.Default.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

// Name returns the observer identifier.
func (l *LogObserver) Name() string { return "log" }

// Observe logs the event.
func (l *LogObserver) Observe(_ context.Context, event types.Event) {
	l.logger.Info("audit",
		"kind", event.Kind,
		"assetId", event.AssetID,
		"workOrderId", event.OrderID,
		"technicianId", event.TechnicianID,
		"message", event.Message,
	)
}
