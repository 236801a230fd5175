package worker

import (
	"context"
	"sync"

	"github.com/lockfreeze/lockfreeze/internal/compiler"
)

// DefaultSize is the fixed slot count for freeze runs. Each compiler
// invocation is itself resolver-heavy, so more slots buy little.
const DefaultSize = 3

// ExecFunc runs one job to completion and returns its result.
type ExecFunc func(ctx context.Context, job compiler.Job) compiler.Result

// Pool is a fixed-capacity concurrent executor. Each slot runs one
// job's compile-then-stamp sequence to completion before taking the
// next queued job.
type Pool struct {
	sem chan struct{} // Semaphore for concurrency control
	wg  sync.WaitGroup
}

// NewPool creates a worker pool with the specified parallelism.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{
		sem: make(chan struct{}, size),
	}
}

// Submit queues a job for execution under exec and returns its future.
// Blocks if the pool is at capacity until a slot opens.
func (p *Pool) Submit(ctx context.Context, job compiler.Job, exec ExecFunc) *Future {
	fut := newFuture(job)

	p.wg.Add(1)

	// Acquire semaphore slot (blocks if pool at capacity)
	p.sem <- struct{}{}

	go func() {
		defer func() {
			<-p.sem
			p.wg.Done()
		}()

		fut.resolve(exec(ctx, job))
	}()

	return fut
}

// Shutdown waits for all in-flight jobs to finish. Running jobs are
// never killed; a fail-fast abort only prevents future submissions.
func (p *Pool) Shutdown() {
	p.wg.Wait()
}
