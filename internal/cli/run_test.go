package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockfreeze/lockfreeze/internal/compiler"
	"github.com/lockfreeze/lockfreeze/internal/graph"
	"github.com/lockfreeze/lockfreeze/internal/stamp"
	"github.com/lockfreeze/lockfreeze/internal/testutil"
)

// execApp runs the CLI with the given args and returns stdout and the error.
func execApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := New()
	app.rootCmd.SetOut(&out)
	app.rootCmd.SetErr(&out)
	app.rootCmd.SetArgs(args)
	err := app.Execute()
	return out.String(), err
}

func withStubRunner(t *testing.T, runner *testutil.StubRunner) {
	t.Helper()
	compiler.SetDefaultRunner(runner)
	t.Cleanup(func() { compiler.SetDefaultRunner(nil) })
}

func TestRun_SentrySucceeds(t *testing.T) {
	base := t.TempDir()
	runner := testutil.NewStubRunner()
	runner.StubDefault(testutil.Response{Output: []byte("alpha==1.0.0\n")})
	withStubRunner(t, runner)

	out, err := execApp(t, "run", "sentry", "--base", base, "--no-tui")
	require.NoError(t, err)

	assert.Contains(t, out, "Freeze complete:")
	assert.Contains(t, out, "Jobs:     3")
	assert.Contains(t, out, "Failed:   0")

	got, err := os.ReadFile(filepath.Join(base, graph.LockFrozen))
	require.NoError(t, err)
	assert.Equal(t, stamp.Header+"alpha==1.0.0\n", string(got))
}

func TestRun_FailureReturnsErrRunFailed(t *testing.T) {
	base := t.TempDir()
	runner := testutil.NewStubRunner()
	runner.StubDefault(testutil.Response{ExitCode: 1, Stderr: []byte("no solution\n")})
	withStubRunner(t, runner)

	out, err := execApp(t, "run", "sentry", "--base", base, "--no-tui")

	assert.ErrorIs(t, err, ErrRunFailed)
	assert.Contains(t, out, "no solution")
	assert.Contains(t, out, "returned code 1")
}

func TestRun_UnknownRepo(t *testing.T) {
	_, err := execApp(t, "run", "not-a-repo", "--no-tui")
	assert.ErrorContains(t, err, "unknown repository")
}

func TestRun_DryRunExecutesNothing(t *testing.T) {
	base := t.TempDir()
	runner := testutil.NewStubRunner()
	withStubRunner(t, runner)

	out, err := execApp(t, "run", "getsentry", "--base", base, "--dry-run", "--no-tui")
	require.NoError(t, err)

	assert.Empty(t, runner.Calls())
	assert.Contains(t, out, "stage 1:")
	assert.Contains(t, out, "stage 2:")
}

func TestRun_CompilerFlagOverridesTool(t *testing.T) {
	base := t.TempDir()
	runner := testutil.NewStubRunner()
	runner.StubDefault(testutil.Response{Output: []byte("alpha==1.0.0\n")})
	withStubRunner(t, runner)

	_, err := execApp(t, "run", "sentry", "--base", base, "--compiler", "/ci/pip-compile", "--no-tui")
	require.NoError(t, err)

	for _, call := range runner.Calls() {
		assert.Contains(t, call, "/ci/pip-compile ")
	}
}

func TestRun_OutdirPositionalSeeds(t *testing.T) {
	base := t.TempDir()
	outDir := t.TempDir()
	for _, lock := range graph.LockFiles {
		require.NoError(t, os.WriteFile(filepath.Join(base, lock), []byte("pinned\n"), 0o644))
	}

	runner := testutil.NewStubRunner()
	runner.StubDefault(testutil.Response{Output: []byte("alpha==1.0.0\n")})
	withStubRunner(t, runner)

	_, err := execApp(t, "run", "sentry", outDir, "--base", base, "--no-tui")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(outDir, graph.LockFrozen))
	require.NoError(t, err)
	assert.Equal(t, stamp.Header+"alpha==1.0.0\n", string(got))
}
