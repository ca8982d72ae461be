// Package parallel provides the bounded worker pool used to fan independent
// rule applications out across CPUs. Rule application is pure computation
// over immutable inputs, so tasks need no coordination beyond scheduling.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolShutdown is returned when submitting to a pool that has been shut down.
var ErrPoolShutdown = errors.New("worker pool has been shut down")

// WorkerPool runs submitted tasks on a fixed number of goroutines. Submit
// applies backpressure: when every worker is busy and the queue is full, it
// blocks until a slot frees up or the caller's context is cancelled.
type WorkerPool struct {
	maxWorkers   int
	tasks        chan func()
	workerWg     sync.WaitGroup
	shutdownChan chan struct{}
	once         sync.Once
}

// NewWorkerPool creates a pool with the given number of workers. Zero or a
// negative count selects one worker per CPU.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers:   maxWorkers,
		tasks:        make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}

	return pool
}

// worker drains the task queue until shutdown.
func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()

	for {
		select {
		case task := <-wp.tasks:
			if task != nil {
				task()
			}
		case <-wp.shutdownChan:
			return
		}
	}
}

// Submit queues a task for execution, blocking while the pool is saturated.
// It returns ctx.Err() if the context is cancelled first, or
// ErrPoolShutdown after Shutdown.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	select {
	case wp.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	}
}

// Shutdown stops the pool, waiting for in-flight tasks to finish. Safe to
// call more than once.
func (wp *WorkerPool) Shutdown() {
	// The task channel is left open: closing it would turn a late Submit
	// into a panic instead of ErrPoolShutdown.
	wp.once.Do(func() {
		close(wp.shutdownChan)
		wp.workerWg.Wait()
	})
}
