package orchestrator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockfreeze/lockfreeze/internal/events"
	"github.com/lockfreeze/lockfreeze/internal/graph"
	"github.com/lockfreeze/lockfreeze/internal/metrics"
	"github.com/lockfreeze/lockfreeze/internal/stamp"
	"github.com/lockfreeze/lockfreeze/internal/testutil"
)

func writeBaseLockFiles(t *testing.T, dir string) {
	t.Helper()
	for _, lock := range graph.LockFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, lock), []byte("pinned\n"), 0o644))
	}
}

func run(t *testing.T, cfg Config, runner *testutil.StubRunner) (*Result, string) {
	t.Helper()
	var buf bytes.Buffer
	cfg.Out = &buf
	orch := New(cfg, Dependencies{Runner: runner})
	res := orch.Run(context.Background())
	return res, buf.String()
}

func TestRun_PlainMode_SameDir(t *testing.T) {
	base := t.TempDir()
	runner := testutil.NewStubRunner()
	runner.StubDefault(testutil.Response{Output: []byte("alpha==1.0.0\n")})

	res, out := run(t, Config{Mode: graph.ModePlain, BaseDir: base, Compiler: "pip-compile"}, runner)

	assert.Equal(t, 0, res.Status)
	assert.Equal(t, 3, res.TotalJobs)
	assert.Len(t, runner.Calls(), 3, "plain mode has no stage 2")
	assert.Empty(t, out)

	for _, lock := range graph.LockFiles {
		got, err := os.ReadFile(filepath.Join(base, lock))
		require.NoError(t, err)
		assert.Equal(t, stamp.Header+"alpha==1.0.0\n", string(got))
	}
}

func TestRun_MergeMode_SeparateOutDir(t *testing.T) {
	base := t.TempDir()
	outDir := t.TempDir()
	writeBaseLockFiles(t, base)

	plan := graph.Build(graph.ModeMerge, "pip-compile", base, outDir)
	runner := testutil.NewStubRunner()
	for _, job := range plan.Stage1 {
		runner.Stub(job.Argv, testutil.Response{Output: []byte("stage1 pins\n")})
	}
	for _, job := range plan.Stage2 {
		runner.Stub(job.Argv, testutil.Response{Output: []byte("stage2 pins\n")})
	}

	res, _ := run(t, Config{Mode: graph.ModeMerge, BaseDir: base, OutDir: outDir, Compiler: "pip-compile"}, runner)

	assert.Equal(t, 0, res.Status)
	assert.Equal(t, 4, res.TotalJobs)
	assert.Len(t, runner.Calls(), 4)

	// Seeder mirrored all three lock files before compilation.
	got, err := os.ReadFile(filepath.Join(outDir, graph.LockDevOnlyFrozen))
	require.NoError(t, err)
	assert.Equal(t, "pinned\n", string(got))

	// The shared lock files hold the stamped stage-2 output.
	for _, lock := range []string{graph.LockFrozen, graph.LockDevFrozen} {
		got, err := os.ReadFile(filepath.Join(outDir, lock))
		require.NoError(t, err)
		assert.Equal(t, stamp.Header+"stage2 pins\n", string(got))
	}
}

func TestRun_Stage1FailureSkipsStage2(t *testing.T) {
	base := t.TempDir()
	outDir := t.TempDir()
	writeBaseLockFiles(t, base)

	plan := graph.Build(graph.ModeMerge, "pip-compile", base, outDir)
	runner := testutil.NewStubRunner()
	runner.Stub(plan.Stage1[0].Argv, testutil.Response{
		ExitCode: 1,
		Stderr:   []byte("could not solve beta>=9\n"),
	})
	runner.Stub(plan.Stage1[1].Argv, testutil.Response{Output: []byte("stage1 pins\n")})

	res, out := run(t, Config{Mode: graph.ModeMerge, BaseDir: base, OutDir: outDir, Compiler: "pip-compile"}, runner)

	assert.Equal(t, 1, res.Status)
	assert.Equal(t, 1, res.Failed)

	// Both stage-1 jobs ran and were drained; neither stage-2 job was
	// ever submitted.
	assert.Len(t, runner.Calls(), 2)
	for _, job := range plan.Stage2 {
		assert.Zero(t, runner.CallsFor(job.Argv))
	}

	assert.Contains(t, out, "returned code 1")
	assert.Contains(t, out, "could not solve beta>=9")
	assert.Contains(t, out, plan.Stage1[0].String())
}

func TestRun_SeedFailureAbortsBeforeJobs(t *testing.T) {
	base := t.TempDir()
	outDir := t.TempDir()
	// No prior lock files at the base path: seeding must fail loudly.

	runner := testutil.NewStubRunner()
	res, out := run(t, Config{Mode: graph.ModePlain, BaseDir: base, OutDir: outDir, Compiler: "pip-compile"}, runner)

	assert.Equal(t, 1, res.Status)
	assert.Empty(t, runner.Calls(), "no job runs after a seed failure")
	assert.Contains(t, out, "seeding")
}

func TestRun_SeedsEvenWithoutStage2(t *testing.T) {
	base := t.TempDir()
	outDir := t.TempDir()
	writeBaseLockFiles(t, base)

	runner := testutil.NewStubRunner()
	runner.StubDefault(testutil.Response{Output: []byte("alpha==1.0.0\n")})

	bus := events.NewBus()
	var seeded bool
	bus.Subscribe(func(e events.Event) {
		if e.Type == events.SeedCompleted {
			seeded = true
		}
	})

	var buf bytes.Buffer
	orch := New(Config{Mode: graph.ModePlain, BaseDir: base, OutDir: outDir, Compiler: "pip-compile", Out: &buf},
		Dependencies{Runner: runner, Bus: bus})
	res := orch.Run(context.Background())

	assert.Equal(t, 0, res.Status)
	assert.True(t, seeded, "a differing output directory is seeded even when no stage 2 exists")
}

func TestRun_StampFailureFailsRun(t *testing.T) {
	base := t.TempDir()
	// Default stub succeeds but writes nothing, so every stamp fails.
	runner := testutil.NewStubRunner()
	runner.StubDefault(testutil.Response{})

	res, out := run(t, Config{Mode: graph.ModePlain, BaseDir: base, Compiler: "pip-compile"}, runner)

	assert.Equal(t, 1, res.Status)
	assert.Equal(t, 3, res.Failed)
	assert.Contains(t, out, "failed:")
}

func TestRun_DryRunExecutesNothing(t *testing.T) {
	base := t.TempDir()
	runner := testutil.NewStubRunner()

	res, out := run(t, Config{Mode: graph.ModeMerge, BaseDir: base, Compiler: "pip-compile", DryRun: true}, runner)

	assert.Equal(t, 0, res.Status)
	assert.Empty(t, runner.Calls())
	assert.Equal(t, 2, strings.Count(out, "stage 1:"))
	assert.Equal(t, 2, strings.Count(out, "stage 2:"))
}

func TestRun_EmitsLifecycleEvents(t *testing.T) {
	base := t.TempDir()
	runner := testutil.NewStubRunner()
	runner.StubDefault(testutil.Response{Output: []byte("alpha==1.0.0\n")})

	bus := events.NewBus()
	var types []events.EventType
	bus.Subscribe(func(e events.Event) { types = append(types, e.Type) })

	rec := metrics.NewRecorder(metrics.NewMemSink())
	var buf bytes.Buffer
	orch := New(Config{Mode: graph.ModePlain, BaseDir: base, Compiler: "pip-compile", Out: &buf},
		Dependencies{Runner: runner, Bus: bus, Metrics: rec})
	res := orch.Run(context.Background())

	require.Equal(t, 0, res.Status)
	assert.Equal(t, events.RunStarted, types[0])
	assert.Equal(t, events.RunCompleted, types[len(types)-1])
	assert.Contains(t, types, events.StageStarted)
	assert.Contains(t, types, events.StageCompleted)
	assert.Contains(t, types, events.JobStamped)
}

func TestRun_MetricsSamplePerJob(t *testing.T) {
	base := t.TempDir()
	runner := testutil.NewStubRunner()
	runner.StubDefault(testutil.Response{Output: []byte("alpha==1.0.0\n")})

	sink := metrics.NewMemSink()
	var buf bytes.Buffer
	orch := New(Config{Mode: graph.ModePlain, BaseDir: base, Compiler: "pip-compile", Out: &buf},
		Dependencies{Runner: runner, Metrics: metrics.NewRecorder(sink)})
	res := orch.Run(context.Background())

	require.Equal(t, 0, res.Status)
	assert.Len(t, sink.Samples("jobs.compile"), 3)
}
