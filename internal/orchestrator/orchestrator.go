// Package orchestrator sequences a freeze run: optional seeding, a
// first stage of compiler jobs, and for merge mode a second stage that
// folds override pins into the same lock files. Failure in one stage is
// fatal for the next, but every job in the failing stage is drained so
// no diagnostics are lost.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lockfreeze/lockfreeze/internal/compiler"
	"github.com/lockfreeze/lockfreeze/internal/events"
	"github.com/lockfreeze/lockfreeze/internal/graph"
	"github.com/lockfreeze/lockfreeze/internal/metrics"
	"github.com/lockfreeze/lockfreeze/internal/seed"
	"github.com/lockfreeze/lockfreeze/internal/worker"
)

// Config holds orchestrator-specific configuration
type Config struct {
	// Mode selects the job plan
	Mode graph.Mode

	// BaseDir is the repository root holding the input files
	BaseDir string

	// OutDir receives the lock files; seeding runs when it differs
	// from BaseDir
	OutDir string

	// Compiler is the dependency compiler command (argv[0])
	Compiler string

	// Parallelism is the worker pool size (0 means worker.DefaultSize)
	Parallelism int

	// DryRun prints the job plan without executing anything
	DryRun bool

	// Out receives failure reports and the dry-run plan
	// (default: os.Stdout)
	Out io.Writer
}

// Dependencies bundles external collaborators for injection
type Dependencies struct {
	Bus     *events.Bus
	Runner  compiler.Runner
	Metrics *metrics.Recorder
}

// Result summarizes a finished run
type Result struct {
	Status    int
	TotalJobs int
	Failed    int
	Duration  time.Duration
}

// Orchestrator coordinates one freeze run
type Orchestrator struct {
	cfg     Config
	bus     *events.Bus
	runner  compiler.Runner
	metrics *metrics.Recorder
}

// New creates an orchestrator with the given configuration and dependencies
func New(cfg Config, deps Dependencies) *Orchestrator {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.OutDir == "" {
		cfg.OutDir = cfg.BaseDir
	}
	runner := deps.Runner
	if runner == nil {
		runner = compiler.DefaultRunner()
	}
	return &Orchestrator{
		cfg:     cfg,
		bus:     deps.Bus,
		runner:  runner,
		metrics: deps.Metrics,
	}
}

// Run executes the full freeze sequence and returns the result. The
// status is 0 iff every job in every executed stage succeeded.
func (o *Orchestrator) Run(ctx context.Context) *Result {
	start := time.Now()
	plan := graph.Build(o.cfg.Mode, o.cfg.Compiler, o.cfg.BaseDir, o.cfg.OutDir)

	if o.cfg.DryRun {
		return o.dryRun(plan, start)
	}

	o.emit(events.NewEvent(events.RunStarted).WithPayload(map[string]any{"jobs": plan.Jobs()}))

	result := &Result{TotalJobs: plan.Jobs()}
	finish := func(failed int) *Result {
		result.Failed = failed
		if failed > 0 {
			result.Status = 1
			o.emit(events.NewEvent(events.RunFailed))
		} else {
			o.emit(events.NewEvent(events.RunCompleted))
		}
		result.Duration = time.Since(start)
		return result
	}

	// Seeding runs whenever the output directory differs, regardless
	// of mode: the compiler's upgrade avoidance keys on file presence
	// at the destination, not on whether a stage needs it.
	if o.seedRequired() {
		o.emit(events.NewEvent(events.SeedStarted))
		if err := seed.Copy(o.cfg.BaseDir, o.cfg.OutDir); err != nil {
			o.emit(events.NewEvent(events.SeedFailed).WithError(err))
			fmt.Fprintf(o.cfg.Out, "%v\n", err)
			return finish(1)
		}
		o.emit(events.NewEvent(events.SeedCompleted))
	}

	pool := worker.NewPool(o.cfg.Parallelism)
	defer pool.Shutdown()

	if failed := o.runStage(ctx, pool, 1, plan.Stage1); failed > 0 {
		return finish(failed)
	}

	if len(plan.Stage2) > 0 {
		if failed := o.runStage(ctx, pool, 2, plan.Stage2); failed > 0 {
			return finish(failed)
		}
	}

	return finish(0)
}

// runStage submits every job of one stage, drains all futures, and
// returns the number of failures.
func (o *Orchestrator) runStage(ctx context.Context, pool *worker.Pool, stage int, jobs []compiler.Job) int {
	o.emit(events.NewEvent(events.StageStarted).WithStage(stage).WithPayload(map[string]any{"jobs": len(jobs)}))

	exec := &worker.Executor{
		Runner:  o.runner,
		Dir:     o.cfg.BaseDir,
		Stage:   stage,
		Bus:     o.bus,
		Metrics: o.metrics,
	}

	futures := make([]*worker.Future, 0, len(jobs))
	for _, job := range jobs {
		o.emit(events.NewEvent(events.JobQueued).WithStage(stage).WithJob(job.String(), job.Output))
		futures = append(futures, pool.Submit(ctx, job, exec.Execute))
	}

	failed := 0
	if rc := worker.Drain(futures, o.cfg.Out); rc != 0 {
		for _, fut := range futures {
			if !fut.Wait().OK() {
				failed++
			}
		}
		o.emit(events.NewEvent(events.StageFailed).WithStage(stage))
		return failed
	}

	o.emit(events.NewEvent(events.StageCompleted).WithStage(stage))
	return 0
}

func (o *Orchestrator) dryRun(plan graph.Plan, start time.Time) *Result {
	o.emit(events.NewEvent(events.RunDryRunStarted))
	for _, job := range plan.Stage1 {
		fmt.Fprintf(o.cfg.Out, "stage 1: %s\n", job)
	}
	for _, job := range plan.Stage2 {
		fmt.Fprintf(o.cfg.Out, "stage 2: %s\n", job)
	}
	o.emit(events.NewEvent(events.RunDryRunCompleted))
	return &Result{TotalJobs: plan.Jobs(), Duration: time.Since(start)}
}

func (o *Orchestrator) seedRequired() bool {
	return filepath.Clean(o.cfg.OutDir) != filepath.Clean(o.cfg.BaseDir)
}

func (o *Orchestrator) emit(e events.Event) {
	if o.bus == nil {
		return
	}
	if o.metrics != nil {
		e = e.WithRun(o.metrics.RunID())
	}
	o.bus.Emit(e)
}
