package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"pubtransconnect/internal/metrics"
)

// CycleRunner is the work a tick triggers. Implemented by *Cycle.
type CycleRunner interface {
	Run(ctx context.Context) error
}

// Scheduler fires the poll cycle at the next top-of-hour-plus-offset slot and
// every hour after that. A busy flag guards against overlap: a tick arriving
// while a cycle is still running is dropped with a warning, never queued, so
// at most one cycle runs at a time.
type Scheduler struct {
	cycle        CycleRunner
	minuteOffset int
	collector    *metrics.Collector
	logger       *slog.Logger
	now          func() time.Time

	busy atomic.Bool
	wg   sync.WaitGroup
}

// SchedulerConfig holds the dependencies for creating a Scheduler.
type SchedulerConfig struct {
	Cycle        CycleRunner
	MinuteOffset int // minutes past the hour, 0-59, validated by config
	Collector    *metrics.Collector
	Logger       *slog.Logger
	Now          func() time.Time // for testability; defaults to time.Now
}

// NewScheduler creates a Scheduler from the given configuration.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
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
	return &Scheduler{
		cycle:        cfg.Cycle,
		minuteOffset: cfg.MinuteOffset,
		collector:    collector,
		logger:       logger,
		now:          now,
	}
}

// Busy reports whether a cycle is currently running. Read-only view for the
// health endpoint.
func (s *Scheduler) Busy() bool {
	return s.busy.Load()
}

// Run fires the first cycle immediately, then ticks at every aligned slot
// until the context is cancelled. Ticks fire on schedule even while a cycle
// is still running; the overlap guard drops them. Run blocks for the lifetime
// of the process and waits for an in-flight cycle before returning.
func (s *Scheduler) Run(ctx context.Context) {
	// First cycle outside the timer, on startup.
	s.fire(ctx)

	delay := nextSlotDelay(s.now(), s.minuteOffset)
	s.logger.Info("scheduling poll task", "first_tick_in", delay.Round(time.Second).String())

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping", "reason", ctx.Err())
			s.wg.Wait()
			return
		case <-timer.C:
			s.logger.Debug("poll timer tick")
			s.fire(ctx)
			timer.Reset(nextSlotDelay(s.now(), s.minuteOffset))
		}
	}
}

// fire starts one cycle in the background under the overlap guard. Cycle
// errors are contained here: they are logged and the process lives on to the
// next tick.
func (s *Scheduler) fire(ctx context.Context) {
	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Warn("processing already active, dropping tick")
		s.collector.TicksDropped.Inc()
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.busy.Store(false)
		if err := s.cycle.Run(ctx); err != nil {
			s.logger.Error("poll cycle failed", "error", err)
		}
	}()
}

// nextSlotDelay returns the wait until the next occurrence of top-of-hour
// plus minuteOffset. If this hour's slot has already passed (or is exactly
// now), the next hour's slot is used, so the result is always positive.
func nextSlotDelay(now time.Time, minuteOffset int) time.Duration {
	slot := now.Truncate(time.Hour).Add(time.Duration(minuteOffset) * time.Minute)
	if !slot.After(now) {
		slot = slot.Add(time.Hour)
	}
	return slot.Sub(now)
}
