package qmag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrPoolClosed is the outcome of jobs that were still queued when the pool shut down.
var ErrPoolClosed = errors.New("qmag: pool closed")

/*
Q is a fixed-size worker pool. Jobs are queued with Schedule, handed by a
manager goroutine to whichever worker is idle, and their outcomes are
published through a Space.
*/
type Q struct {
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	workers    chan chan Job
	jobs       chan Job
	space      *Space
	metrics    *Metrics
	workerMu   sync.Mutex
	workerList []*Worker
	config     *Config
	closeOnce  sync.Once

	// closeMu orders Schedule's enqueue against Close; once closed is set
	// no job can enter the queue.
	closeMu sync.RWMutex
	closed  bool
}

// NewQ starts a pool with config.Workers workers. A nil config uses NewConfig.
func NewQ(ctx context.Context, config *Config) *Q {
	if config == nil {
		config = NewConfig()
	}

	size := config.Workers
	if size < 1 {
		size = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	q := &Q{
		ctx:        ctx,
		cancel:     cancel,
		jobs:       make(chan Job, size*10),
		workers:    make(chan chan Job, size),
		space:      NewSpace(),
		metrics:    NewMetrics(),
		workerList: make([]*Worker, 0, size),
		config:     config,
	}

	for i := 0; i < size; i++ {
		q.startWorker()
	}

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.manage()
	}()

	return q
}

func (q *Q) manage() {
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			select {
			case <-q.ctx.Done():
				q.space.Store(job.ID, nil, ErrPoolClosed)
				return
			case workerChan := <-q.workers:
				select {
				case workerChan <- job:
				case <-q.ctx.Done():
					q.space.Store(job.ID, nil, ErrPoolClosed)
					return
				}
			case <-time.After(q.config.schedulingTimeout()):
				log.Printf("No available workers for job: %s, timeout occurred", job.ID)
				q.metrics.recordSchedulingFailure()
				q.space.Store(job.ID, nil, fmt.Errorf("no available workers for job %s", job.ID))
			}
		}
	}
}

// Schedule queues fn and returns a channel that delivers its outcome.
func (q *Q) Schedule(id string, fn func(ctx context.Context) (any, error)) <-chan Outcome {
	ctx, cancel := context.WithTimeout(q.ctx, q.config.schedulingTimeout())
	defer cancel()

	job := Job{
		ID:        id,
		Fn:        fn,
		StartTime: time.Now(),
	}

	q.closeMu.RLock()
	defer q.closeMu.RUnlock()

	if q.closed {
		q.space.Store(id, nil, ErrPoolClosed)
		return q.space.Await(id)
	}

	select {
	case q.jobs <- job:
	case <-ctx.Done():
		q.metrics.recordSchedulingFailure()
		q.space.Store(id, nil, fmt.Errorf("job scheduling timeout: %w", ctx.Err()))
	}

	return q.space.Await(id)
}

// Forget releases the stored outcome of a job that has been consumed.
func (q *Q) Forget(id string) {
	q.space.Forget(id)
}

func (q *Q) Metrics() *Metrics {
	return q.metrics
}

func (q *Q) startWorker() {
	worker := &Worker{
		pool: q,
		jobs: make(chan Job),
	}

	q.workerMu.Lock()
	q.workerList = append(q.workerList, worker)
	q.workerMu.Unlock()

	q.metrics.mu.Lock()
	q.metrics.WorkerCount++
	q.metrics.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		worker.run()
	}()
}

// Close stops the pool, waits for running jobs to return, and fails every
// job that was still queued with ErrPoolClosed.
func (q *Q) Close() {
	if q == nil {
		return
	}

	q.closeOnce.Do(func() {
		q.closeMu.Lock()
		q.closed = true
		q.closeMu.Unlock()

		q.cancel()
		q.wg.Wait()

		for {
			select {
			case job := <-q.jobs:
				q.space.Store(job.ID, nil, ErrPoolClosed)
			default:
				log.Printf("Pool closed after %v jobs", q.metrics.Export()["job_count"])
				return
			}
		}
	})
}
