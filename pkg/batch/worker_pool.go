package batch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gnana997/uigen/pkg/util"
)

// ErrPoolStopped is returned by Submit after Stop.
var ErrPoolStopped = errors.New("worker pool is stopped")

// ProcessFunc turns one job into an outcome.
type ProcessFunc func(job FileJob) (Outcome, error)

// WorkerPool runs spec files through a ProcessFunc on a fixed set of
// goroutines.
//
// **Architecture:**
//   - Buffered job channel feeding numWorkers goroutines
//   - Separate result and error channels
//   - Sends honour the pool context, so cancellation never strands a worker
//
// **Usage:**
//
//	pool := NewWorkerPool(ctx, 0, process, logger)
//	pool.Start()
//	defer pool.Stop()
//
//	for _, job := range jobs {
//	    pool.Submit(job)
//	}
//	pool.FinishSubmitting()
//	// read len(jobs) values from Results() and Errors()
type WorkerPool struct {
	numWorkers int
	jobs       chan FileJob
	results    chan Outcome
	errors     chan FileError
	wg         sync.WaitGroup
	process    ProcessFunc
	logger     *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a pool. numWorkers 0 sizes it from the CPU count.
func NewWorkerPool(ctx context.Context, numWorkers int, process ProcessFunc, logger *slog.Logger) *WorkerPool {
	numWorkers = util.GetOptimalPoolSizeWithOverride(numWorkers)
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan Outcome, numWorkers),
		errors:     make(chan FileError, numWorkers),
		process:    process,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the workers. It must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}

	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	wp.logger.Debug("processing spec", "worker_id", workerID, "file", job.Rel)

	outcome, err := wp.process(job)
	if err != nil {
		wp.jobsFailed.Add(1)
		select {
		case wp.errors <- FileError{FilePath: job.Rel, Error: err, Message: err.Error()}:
		case <-wp.ctx.Done():
		}
		return
	}

	outcome.JobID = job.JobID
	wp.jobsProcessed.Add(1)
	select {
	case wp.results <- outcome:
	case <-wp.ctx.Done():
	}
}

// Submit enqueues a job, blocking while the queue is full.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() {
		return ErrPoolStopped
	}

	wp.jobsSubmitted.Add(1)
	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the outcome channel.
func (wp *WorkerPool) Results() <-chan Outcome {
	return wp.results
}

// Errors returns the error channel.
func (wp *WorkerPool) Errors() <-chan FileError {
	return wp.errors
}

// FinishSubmitting closes the job queue. Safe to call more than once.
func (wp *WorkerPool) FinishSubmitting() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Stop waits for in-flight jobs and closes the result and error channels.
// Safe to call more than once.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}

	wp.FinishSubmitting()
	wp.wg.Wait()
	close(wp.results)
	close(wp.errors)
	wp.cancel()

	wp.logger.Debug("worker pool stopped",
		"jobs_submitted", wp.jobsSubmitted.Load(),
		"jobs_processed", wp.jobsProcessed.Load(),
		"jobs_failed", wp.jobsFailed.Load())
}

// WorkerPoolStats contains pool counters.
type WorkerPoolStats struct {
	NumWorkers    int
	JobsSubmitted int64
	JobsProcessed int64
	JobsFailed    int64
	QueueLength   int
}

// GetStats returns current pool counters.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	return WorkerPoolStats{
		NumWorkers:    wp.numWorkers,
		JobsSubmitted: wp.jobsSubmitted.Load(),
		JobsProcessed: wp.jobsProcessed.Load(),
		JobsFailed:    wp.jobsFailed.Load(),
		QueueLength:   len(wp.jobs),
	}
}
