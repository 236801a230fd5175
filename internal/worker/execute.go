package worker

import (
	"context"

	"github.com/lockfreeze/lockfreeze/internal/compiler"
	"github.com/lockfreeze/lockfreeze/internal/events"
	"github.com/lockfreeze/lockfreeze/internal/metrics"
	"github.com/lockfreeze/lockfreeze/internal/stamp"
)

// Executor runs one job end to end: invoke the compiler, and on a zero
// exit stamp the output file with the provenance header. A stamp
// failure downgrades the job to failed even though the tool succeeded.
type Executor struct {
	// Runner executes the compiler subprocess.
	Runner compiler.Runner

	// Dir is the working directory for every invocation.
	Dir string

	// Stage tags emitted events (1 or 2).
	Stage int

	// Bus receives job lifecycle events. Optional.
	Bus *events.Bus

	// Metrics times each job. Optional.
	Metrics *metrics.Recorder
}

// Execute implements ExecFunc.
func (e *Executor) Execute(ctx context.Context, job compiler.Job) compiler.Result {
	e.emit(events.NewEvent(events.JobStarted), job)

	var res compiler.Result
	run := func() error {
		res = e.run(ctx, job)
		return res.Err
	}

	if e.Metrics != nil {
		// Errors surface through res; Timed only needs the duration.
		_ = e.Metrics.Timed("jobs.compile", run)
	} else {
		_ = run()
	}

	if res.OK() {
		e.emit(events.NewEvent(events.JobCompleted), job)
	} else {
		e.emit(events.NewEvent(events.JobFailed).WithError(res.Err), job)
	}
	return res
}

func (e *Executor) run(ctx context.Context, job compiler.Job) compiler.Result {
	inv := e.Runner.Run(ctx, e.Dir, job.Argv...)
	res := compiler.Result{
		Job:      job,
		ExitCode: inv.ExitCode,
		Stdout:   inv.Stdout,
		Stderr:   inv.Stderr,
		Err:      inv.Err,
	}
	if !res.OK() {
		return res
	}

	if err := stamp.File(job.Output); err != nil {
		res.Err = err
		return res
	}
	e.emit(events.NewEvent(events.JobStamped), job)
	return res
}

func (e *Executor) emit(evt events.Event, job compiler.Job) {
	if e.Bus == nil {
		return
	}
	e.Bus.Emit(evt.WithStage(e.Stage).WithJob(job.String(), job.Output))
}
