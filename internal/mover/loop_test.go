package mover

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now   atomic.Int64 // unix nanos
	ticks chan time.Time
}

func newFakeClock() *fakeClock {
	c := &fakeClock{ticks: make(chan time.Time)}
	c.now.Store(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano())
	return c
}

func (c *fakeClock) Now() time.Time {
	return time.Unix(0, c.now.Load())
}

func (c *fakeClock) Tick(time.Duration) <-chan time.Time {
	return c.ticks
}

func (c *fakeClock) advance(d time.Duration) {
	c.now.Add(int64(d))
}

func TestLoopRunsOnTick(t *testing.T) {
	clock := newFakeClock()
	var runs atomic.Int32
	loop := newLoop(time.Minute, 5*time.Minute, func(context.Context) {
		runs.Add(1)
	}, clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()

	clock.ticks <- clock.Now()
	clock.ticks <- clock.Now()
	cancel()
	<-done

	assert.Equal(t, int32(2), runs.Load())
}

func TestLoopDropsStaleTick(t *testing.T) {
	clock := newFakeClock()
	var runs atomic.Int32
	loop := newLoop(time.Minute, 5*time.Minute, func(context.Context) {
		runs.Add(1)
	}, clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()

	// A tick stamped longer ago than the grace window is dropped.
	stale := clock.Now()
	clock.advance(10 * time.Minute)
	clock.ticks <- stale

	// A fresh tick still runs.
	clock.ticks <- clock.Now()
	cancel()
	<-done

	assert.Equal(t, int32(1), runs.Load())
}

func TestLoopRunsNeverOverlap(t *testing.T) {
	clock := newFakeClock()
	var active, maxActive atomic.Int32
	loop := newLoop(time.Minute, 0, func(context.Context) {
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
	}, clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		clock.ticks <- clock.Now()
	}
	cancel()
	<-done

	assert.Equal(t, int32(1), maxActive.Load())
}

func TestLoopShutdownFinishesInflightRun(t *testing.T) {
	clock := newFakeClock()
	started := make(chan struct{})
	finished := make(chan struct{})
	loop := newLoop(time.Minute, 0, func(context.Context) {
		close(started)
		time.Sleep(20 * time.Millisecond)
		close(finished)
	}, clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()

	clock.ticks <- clock.Now()
	<-started
	cancel()
	<-done

	select {
	case <-finished:
	default:
		t.Fatal("loop returned before the in-flight run finished")
	}
}
