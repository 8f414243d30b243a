package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a function to Job
type JobFunc func(ctx context.Context) error

func (f JobFunc) Process(ctx context.Context) error {
	return f(ctx)
}

// Pool represents a worker pool
type Pool struct {
	workers    int
	jobQueue   chan Job
	jobTimeout time.Duration
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, queueSize),
		jobTimeout: DefaultJobTimeout,
		quit:       make(chan struct{}),
	}
}

// SetJobTimeout changes the per-job deadline. Call before Start.
func (p *Pool) SetJobTimeout(d time.Duration) {
	if d > 0 {
		p.jobTimeout = d
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(job)
		case <-p.quit:
			return
		}
	}
}

// run executes one job, keeping the worker alive if it panics
func (p *Pool) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.jobTimeout)
	defer cancel()
	log := logger.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error(LogMsgWorkerJobPanic, "job", fmt.Sprintf("%T", job), "panic", r)
		}
	}()

	if err := job.Process(ctx); err != nil {
		log.Error(LogMsgWorkerJobFailed, "job", fmt.Sprintf("%T", job), "error", err)
	}
}

// Enqueue adds a job to the queue, blocking while it is full
func (p *Pool) Enqueue(job Job) {
	select {
	case p.jobQueue <- job:
	case <-p.quit:
	}
}

// TryEnqueue adds a job without blocking and reports whether it was queued
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.Warn(LogMsgQueueFull, "job", fmt.Sprintf("%T", job))
		return false
	}
}

// Stop stops the workers and waits for them to finish
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}
