// ABOUTME: Bounded worker pool for parallelizing batch tasks
// ABOUTME: Wraps a pond pool with a submit-and-wait pattern and an ordered chunked map

package pool

import (
	"runtime"

	"github.com/alitto/pond"
)

// WorkerPool manages a pool of worker goroutines for parallel task execution
type WorkerPool struct {
	pool  *pond.WorkerPool
	group *pond.TaskGroup // tasks submitted since the last Wait
}

// NewWorkerPool creates a worker pool with the given number of workers.
// Zero or negative workers means one per CPU. The bufferSize determines the
// task queue capacity; Submit blocks once it is full.
func NewWorkerPool(workers, bufferSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := pond.New(workers, bufferSize)

	return &WorkerPool{
		pool:  p,
		group: p.Group(),
	}
}

// Workers returns the maximum number of concurrent workers
func (p *WorkerPool) Workers() int {
	return p.pool.MaxWorkers()
}

// Submit adds a task to the pool
func (p *WorkerPool) Submit(task func()) {
	p.group.Submit(task)
}

// Wait blocks until all tasks submitted since the last Wait have completed
func (p *WorkerPool) Wait() {
	p.group.Wait()
	p.group = p.pool.Group()
}

// Close shuts down the worker pool and waits for queued tasks to finish
func (p *WorkerPool) Close() {
	p.pool.StopAndWait()
}

// Map calls fn for every index in [0, n) in chunks of chunkSize and returns
// the results in index order. Chunks run concurrently; fn must be safe for that.
func Map[T any](p *WorkerPool, n, chunkSize int, fn func(i int) T) []T {
	if n <= 0 {
		return nil
	}

	if chunkSize <= 0 {
		chunkSize = n
	}

	out := make([]T, n)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)

		p.Submit(func() {
			for i := start; i < end; i++ {
				out[i] = fn(i)
			}
		})
	}

	p.Wait()

	return out
}
