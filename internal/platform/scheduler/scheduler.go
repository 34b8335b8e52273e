package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/streamgoal/match-portal/internal/platform/logging"
)

// Job is a named periodic task. Run receives a context cancelled on
// scheduler shutdown and must return instead of blocking past it.
type Job struct {
	Name     string
	Interval time.Duration
	// Jitter, when positive, offsets each tick by up to Jitter to keep
	// collection polls from synchronizing.
	Jitter time.Duration
	// RunOnStart fires the job once immediately instead of waiting a full
	// interval for the first tick.
	RunOnStart bool
	Run        func(ctx context.Context)
}

// Scheduler drives registered jobs on independent tickers. Tests inject
// tick channels through newTicker to simulate time.
type Scheduler struct {
	logger    *logging.Logger
	jobs      []Job
	stopChan  chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once

	newTicker func(d time.Duration) (<-chan time.Time, func())
}

func New(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Scheduler{
		logger:   logger,
		stopChan: make(chan struct{}),
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

func (s *Scheduler) Register(job Job) {
	if job.Run == nil || job.Interval <= 0 {
		return
	}
	s.jobs = append(s.jobs, job)
}

func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		for _, job := range s.jobs {
			job := job
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.runJob(ctx, job)
			}()
			s.logger.Info("scheduler job started", "job", job.Name, "interval", job.Interval)
		}
	})
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	if job.RunOnStart {
		job.Run(ctx)
	}

	tick, stop := s.newTicker(withJitter(job.Interval, job.Jitter))
	defer stop()

	for {
		select {
		case <-tick:
			job.Run(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func withJitter(interval, jitter time.Duration) time.Duration {
	if jitter <= 0 {
		return interval
	}
	return interval + time.Duration(rand.Int63n(int64(jitter)))
}
