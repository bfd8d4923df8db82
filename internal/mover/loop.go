package mover

import (
	"context"
	"log/slog"
	"time"
)

// Clock abstracts time for the loop so tests can drive ticks directly.
type Clock interface {
	Now() time.Time
	Tick(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                        { return time.Now() }
func (realClock) Tick(d time.Duration) <-chan time.Time { return time.Tick(d) }

// Loop runs a task on a fixed interval with the scheduling rules the
// reconciler needs: runs never overlap (the task runs on the loop goroutine),
// ticks that arrive mid-run coalesce into at most one catch-up run, and a
// catch-up older than the grace window is dropped instead of executed.
type Loop struct {
	interval time.Duration
	grace    time.Duration
	task     func(ctx context.Context)
	clock    Clock
	log      *slog.Logger
}

// NewLoop creates a Loop. A grace of zero disables staleness dropping.
func NewLoop(interval, grace time.Duration, task func(ctx context.Context), log *slog.Logger) *Loop {
	return newLoop(interval, grace, task, realClock{}, log)
}

func newLoop(interval, grace time.Duration, task func(ctx context.Context), clock Clock, log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		interval: interval,
		grace:    grace,
		task:     task,
		clock:    clock,
		log:      log.With("component", "loop"),
	}
}

// Run blocks until ctx is cancelled. An in-flight task run always finishes;
// cancellation is only observed between runs.
func (l *Loop) Run(ctx context.Context) error {
	ticks := l.clock.Tick(l.interval)
	l.log.Info("loop started", "interval", l.interval.String())

	for {
		select {
		case <-ctx.Done():
			l.log.Info("loop stopped")
			return ctx.Err()
		case tick := <-ticks:
			if l.grace > 0 {
				if lag := l.clock.Now().Sub(tick); lag > l.grace {
					l.log.Warn("dropping stale tick", "lag", lag.String())
					continue
				}
			}
			l.task(ctx)
		}
	}
}
