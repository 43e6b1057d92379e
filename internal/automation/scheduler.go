package automation

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkraev/clipsync/internal/core"
)

// Dispatcher receives the results of timer firings. Typically it hands
// effect commands to the client that registered for them.
type Dispatcher func(Result)

// Scheduler fires timer-triggered workflows at a fixed interval. It
// carries no item: timer events have no subject, so item-bound
// activities are skipped.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	dispatch Dispatcher
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler. If interval is <= 0, it defaults to
// one minute. dispatch may be nil when nobody consumes the effects.
func NewScheduler(engine *Engine, interval time.Duration, dispatch Dispatcher) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		engine:   engine,
		interval: interval,
		dispatch: dispatch,
		logger:   slog.Default(),
	}
}

// Run fires the timer trigger on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := s.engine.Fire(ctx, FireContext{Trigger: core.TriggerTimer})
			for _, f := range res.Failures {
				s.logger.Warn("timer workflow failed",
					"workflow", f.WorkflowName, "activity", f.ActivityIndex, "error", f.Reason)
			}
			if s.dispatch != nil && (len(res.Effects) > 0 || len(res.Failures) > 0) {
				s.dispatch(res)
			}
		}
	}
}
