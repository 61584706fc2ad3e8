// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Recalculator resolves pending items against the current electorates.
type Recalculator interface {
	RecalculateAll(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	recalc  Recalculator
	timeout time.Duration
}

// New registers the electorate sweep under spec, a six-field cron expression
// evaluated in UTC. Overlapping runs are skipped rather than queued.
func New(spec string, recalc Recalculator, timeout time.Duration) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{cron: c, recalc: recalc, timeout: timeout}

	if _, err := c.AddFunc(spec, s.Sweep); err != nil {
		return nil, fmt.Errorf("register recalculation sweep %q: %w", spec, err)
	}

	return s, nil
}

// Sweep runs one recalculation pass. Errors are logged; the next tick retries.
func (s *Scheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()

	changed, err := s.recalc.RecalculateAll(ctx)
	if err != nil {
		slog.Error("scheduler.recalculate.failed", "error", err)
		return
	}

	slog.Info("scheduler.recalculate.done", "items_changed", changed, "took", time.Since(start))
}

func (s *Scheduler) Start() {
	slog.Info("scheduler.started", "jobs", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler.stopped")
}
