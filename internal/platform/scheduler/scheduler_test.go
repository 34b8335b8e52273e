package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_RunsJobOnTicks(t *testing.T) {
	s := New(nil)
	tick := make(chan time.Time)
	s.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return tick, func() {}
	}

	var runs atomic.Int32
	done := make(chan struct{}, 8)
	s.Register(Job{
		Name:     "refresh-live",
		Interval: 15 * time.Second,
		Run: func(context.Context) {
			runs.Add(1)
			done <- struct{}{}
		},
	})

	s.Start(context.Background())
	defer s.Stop()

	for i := 0; i < 3; i++ {
		tick <- time.Now()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("job did not run on tick %d", i)
		}
	}

	if got := runs.Load(); got != 3 {
		t.Fatalf("job ran %d times, want 3", got)
	}
}

func TestScheduler_RunOnStart(t *testing.T) {
	s := New(nil)
	tick := make(chan time.Time)
	s.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return tick, func() {}
	}

	done := make(chan struct{}, 1)
	s.Register(Job{
		Name:       "refresh-all",
		Interval:   time.Minute,
		RunOnStart: true,
		Run: func(context.Context) {
			done <- struct{}{}
		},
	})

	s.Start(context.Background())
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("job did not run on start")
	}
}

func TestScheduler_StopHaltsJobs(t *testing.T) {
	s := New(nil)
	tick := make(chan time.Time, 1)
	s.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return tick, func() {}
	}

	s.Register(Job{
		Name:     "prune-validation-cache",
		Interval: time.Minute,
		Run:      func(context.Context) {},
	})

	s.Start(context.Background())
	s.Stop()
	// Stop returns only after the job goroutine exits; a second Stop is a no-op.
	s.Stop()
}

func TestScheduler_IgnoresInvalidJobs(t *testing.T) {
	s := New(nil)
	s.Register(Job{Name: "no-run", Interval: time.Second})
	s.Register(Job{Name: "no-interval", Run: func(context.Context) {}})

	if len(s.jobs) != 0 {
		t.Fatalf("expected invalid jobs to be ignored, got %d", len(s.jobs))
	}
}
