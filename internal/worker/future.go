package worker

import "github.com/lockfreeze/lockfreeze/internal/compiler"

// Future is the handle for a submitted job. It resolves exactly once.
type Future struct {
	job    compiler.Job
	done   chan struct{}
	result compiler.Result
}

func newFuture(job compiler.Job) *Future {
	return &Future{
		job:  job,
		done: make(chan struct{}),
	}
}

// Job returns the job this future tracks.
func (f *Future) Job() compiler.Job {
	return f.job
}

// Wait blocks until the job finishes and returns its result.
func (f *Future) Wait() compiler.Result {
	<-f.done
	return f.result
}

func (f *Future) resolve(res compiler.Result) {
	f.result = res
	close(f.done)
}
