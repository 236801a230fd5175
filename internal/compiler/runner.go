package compiler

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"sync"
)

// Runner executes external compiler commands.
type Runner interface {
	Run(ctx context.Context, dir string, argv ...string) Invocation
}

// Invocation captures everything a single subprocess run produced.
// A nonzero ExitCode is not an Err; Err means the process never ran
// (missing binary, bad working directory).
type Invocation struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Err      error
}

// osRunner executes real commands via exec.CommandContext.
type osRunner struct{}

func (osRunner) Run(ctx context.Context, dir string, argv ...string) Invocation {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	inv := Invocation{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
	default:
		inv.Err = err
	}

	return inv
}

var (
	defaultRunner Runner = osRunner{}
	runnerMu      sync.RWMutex
)

// DefaultRunner returns the current default runner.
func DefaultRunner() Runner {
	runnerMu.RLock()
	defer runnerMu.RUnlock()
	return defaultRunner
}

// SetDefaultRunner replaces the default runner. Intended for tests.
func SetDefaultRunner(runner Runner) {
	runnerMu.Lock()
	defer runnerMu.Unlock()
	if runner == nil {
		defaultRunner = osRunner{}
		return
	}
	defaultRunner = runner
}
