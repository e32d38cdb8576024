// Package scheduler drives the hourly extraction: the aligned poll timer with
// its overlap guard, the cycle that runs the three extractions in order, and
// the bounded retry used while waiting for dependencies at startup.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pubtransconnect/internal/metrics"
	"pubtransconnect/internal/pubtrans"
)

// HeartbeatWriter records the completion instant of a successful cycle.
// Implemented by cache.Writer.
type HeartbeatWriter interface {
	RecordCycleTimestamp(ctx context.Context) error
}

// Processor runs one extraction for a transformer. Implemented by
// pubtrans.QueryProcessor.
type Processor interface {
	Execute(ctx context.Context, w pubtrans.DateWindow, t pubtrans.Transformer) (pubtrans.Stats, error)
}

// Cycle is one complete extraction run: refresh the date window, run every
// transformer sequentially against the shared source connection, then record
// the heartbeat. A source or cache-connectivity failure aborts the cycle and
// leaves the heartbeat untouched; the next tick retries from scratch.
type Cycle struct {
	processor    Processor
	transformers []pubtrans.Transformer
	heartbeat    HeartbeatWriter
	collector    *metrics.Collector
	historyDays  int
	futureDays   int
	logger       *slog.Logger
	now          func() time.Time

	lastSuccess atomic.Int64 // unix nanos, 0 until the first success
}

// CycleConfig holds the dependencies for creating a Cycle.
type CycleConfig struct {
	Processor    Processor
	Transformers []pubtrans.Transformer
	Heartbeat    HeartbeatWriter
	Collector    *metrics.Collector
	HistoryDays  int
	FutureDays   int
	Logger       *slog.Logger
	Now          func() time.Time // for testability; defaults to time.Now
}

// NewCycle creates a Cycle from the given configuration.
func NewCycle(cfg CycleConfig) *Cycle {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	collector := cfg.Collector
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Cycle{
		processor:    cfg.Processor,
		transformers: cfg.Transformers,
		heartbeat:    cfg.Heartbeat,
		collector:    collector,
		historyDays:  cfg.HistoryDays,
		futureDays:   cfg.FutureDays,
		logger:       logger,
		now:          now,
	}
}

// Run executes one full cycle. The date window is recomputed here, once, and
// shared by all extractions so the three domains stay consistent within the
// cycle.
func (c *Cycle) Run(ctx context.Context) error {
	log := c.logger.With("cycle_id", uuid.NewString())
	c.collector.CyclesStarted.Inc()

	start := c.now()
	window := pubtrans.NewDateWindow(start, c.historyDays, c.futureDays)
	log.Info("starting poll cycle", "from", window.From, "to", window.To)

	for _, t := range c.transformers {
		stats, err := c.processor.Execute(ctx, window, t)
		c.collector.ObserveTransformer(t.Name(), stats.RowsRead, stats.RowsPublished, stats.RowsConfirmed)
		if err != nil {
			c.collector.CyclesFailed.Inc()
			return fmt.Errorf("cycle aborted: %w", err)
		}
	}

	if err := c.heartbeat.RecordCycleTimestamp(ctx); err != nil {
		c.collector.CyclesFailed.Inc()
		return fmt.Errorf("cycle aborted: %w", err)
	}

	finished := c.now()
	c.lastSuccess.Store(finished.UnixNano())
	c.collector.ObserveCycleSuccess(finished.Sub(start), finished)
	log.Info("poll cycle complete", "elapsed", finished.Sub(start).Round(time.Millisecond).String())
	return nil
}

// LastSuccess returns the completion time of the most recent successful
// cycle, or the zero time if none has completed yet.
func (c *Cycle) LastSuccess() time.Time {
	nanos := c.lastSuccess.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}
