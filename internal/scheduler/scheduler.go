package scheduler

import (
	"sync"
	"time"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/worker"
)

// Scheduler enqueues jobs onto a worker pool at fixed intervals
type Scheduler struct {
	workerPool *worker.Pool
	quit       chan struct{}
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

// New creates a new scheduler
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		workerPool: pool,
		quit:       make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. Ticks that find the
// queue full are skipped rather than stalling the ticker.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.schedule(interval, job, false)
}

// ScheduleImmediate is Schedule plus one run right away
func (s *Scheduler) ScheduleImmediate(interval time.Duration, job worker.Job) {
	s.schedule(interval, job, true)
}

func (s *Scheduler) schedule(interval time.Duration, job worker.Job, immediate bool) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		if immediate {
			s.workerPool.TryEnqueue(job)
		}
		for {
			select {
			case <-ticker.C:
				s.workerPool.TryEnqueue(job)
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all scheduled jobs
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}
