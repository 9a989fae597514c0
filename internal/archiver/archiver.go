// Package archiver provides a background process that archives audit events
// to Postgres for durable long-term storage. It plugs into the core as an
// audit observer and flushes its buffer on an interval.
package archiver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gantryhq/gantry/internal/metrics"
	"github.com/gantryhq/gantry/pkg/types"
)

const (
	defaultInterval = 5 * time.Minute
	maxBuffered     = 10000
)

// Destination defines the write interface for the archival backend.
type Destination interface {
	InsertEvents(ctx context.Context, events []types.Event) error
}

// Archiver buffers observed audit events and periodically flushes them.
type Archiver struct {
	dest     Destination
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending []types.Event
	dropped int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Archiver.
func New(dest Destination, interval time.Duration, logger *slog.Logger) *Archiver {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{
		dest:     dest,
		interval: interval,
		logger:   logger,
	}
}

// Name returns the observer identifier.
func (a *Archiver) Name() string { return "archiver" }

// Observe buffers the event for the next flush. When the buffer is full the
// oldest event is dropped so the core never blocks.
func (a *Archiver) Observe(_ context.Context, event types.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.pending) >= maxBuffered {
		a.pending = a.pending[1:]
		a.dropped++
	}
	a.pending = append(a.pending, event)
}

// Start begins the archiver background loop.
func (a *Archiver) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.wg.Add(1)
	go a.loop(ctx)
	a.logger.Info("archiver started", "interval", a.interval)
}

// Stop signals the archiver to stop, flushes the remaining buffer, and waits
// for the loop to finish.
func (a *Archiver) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()
	a.flush(ctx)
	a.logger.Info("archiver stopped")
}

func (a *Archiver) loop(ctx context.Context) {
	defer a.wg.Done()
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.flush(ctx)
		}
	}
}

// flush writes the pending buffer to the destination. On failure the batch is
// put back at the head of the buffer so nothing is lost before the next tick.
func (a *Archiver) flush(ctx context.Context) {
	a.mu.Lock()
	batch := a.pending
	dropped := a.dropped
	a.pending = nil
	a.dropped = 0
	a.mu.Unlock()

	if dropped > 0 {
		a.logger.Warn("archiver buffer overflowed, oldest events dropped", "dropped", dropped)
	}
	if len(batch) == 0 {
		return
	}

	if err := a.dest.InsertEvents(ctx, batch); err != nil {
		a.logger.Error("archiver: insert events failed", "count", len(batch), "error", err)
		a.mu.Lock()
		a.pending = append(batch, a.pending...)
		a.mu.Unlock()
		return
	}

	metrics.EventsArchived.Add(int64(len(batch)))
	a.logger.Debug("archived audit events", "count", len(batch))
}
