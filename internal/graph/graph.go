// Package graph assembles the compiler invocations for a freeze run.
// It is pure: no I/O, no subprocess execution, only token assembly.
package graph

import (
	"fmt"
	"path/filepath"

	"github.com/lockfreeze/lockfreeze/internal/compiler"
)

// Mode selects which jobs exist and whether a second stage merges
// externally-downloaded override pins into the final lock files.
type Mode string

const (
	// ModePlain produces all three lock files in a single stage,
	// including the dev-only file used as a CI fast path.
	ModePlain Mode = "plain"

	// ModeMerge produces the two shared lock files, then re-runs each
	// with an extra override input in a second stage. No dev-only file.
	ModeMerge Mode = "merge"
)

// Repository name tokens recognized on the command line.
const (
	RepoSentry    = "sentry"
	RepoGetsentry = "getsentry"
)

// ModeForRepo maps a repository name to its run mode.
func ModeForRepo(repo string) (Mode, error) {
	switch repo {
	case RepoSentry:
		return ModePlain, nil
	case RepoGetsentry:
		return ModeMerge, nil
	default:
		return "", fmt.Errorf("unknown repository %q (expected %s or %s)", repo, RepoSentry, RepoGetsentry)
	}
}

// Lock file names produced by a freeze run.
const (
	LockFrozen        = "requirements-frozen.txt"
	LockDevFrozen     = "requirements-dev-frozen.txt"
	LockDevOnlyFrozen = "requirements-dev-only-frozen.txt"
)

// Input requirement files read from the base directory.
const (
	InputBase = "requirements-base.txt"
	InputDev  = "requirements-dev.txt"
)

// Override pin files merged in stage 2. These are downloaded
// out of band (bin/bump-sentry) before a merge-mode run.
const (
	OverrideFrozen    = "sentry-requirements-frozen.txt"
	OverrideDevFrozen = "sentry-requirements-dev-frozen.txt"
)

// LockFiles is the fixed set of lock files a run may touch, in the
// order the seeder copies them.
var LockFiles = []string{LockFrozen, LockDevFrozen, LockDevOnlyFrozen}

// baseFlags suppress the compiler's own header and annotations and
// allow pinning packages it considers unsafe.
var baseFlags = []string{"--no-header", "--no-annotate", "--allow-unsafe", "-q"}

// Plan is the full set of jobs for a run, grouped by stage. Stage2 is
// empty for modes without an override merge.
type Plan struct {
	Stage1 []compiler.Job
	Stage2 []compiler.Job
}

// Build assembles the job plan for the given mode. Compiler is the tool
// name (argv[0]); baseDir holds the input files; outDir receives the
// lock files.
func Build(mode Mode, compilerCmd, baseDir, outDir string) Plan {
	job := func(inputs []string, lock string) compiler.Job {
		argv := append([]string{compilerCmd}, baseFlags...)
		for _, in := range inputs {
			argv = append(argv, filepath.Join(baseDir, in))
		}
		argv = append(argv, "-o", filepath.Join(outDir, lock))
		return compiler.NewJob(argv...)
	}

	plan := Plan{
		Stage1: []compiler.Job{
			job([]string{InputBase}, LockFrozen),
			job([]string{InputBase, InputDev}, LockDevFrozen),
		},
	}

	switch mode {
	case ModePlain:
		plan.Stage1 = append(plan.Stage1, job([]string{InputDev}, LockDevOnlyFrozen))
	case ModeMerge:
		plan.Stage2 = []compiler.Job{
			job([]string{InputBase, OverrideFrozen}, LockFrozen),
			job([]string{InputBase, InputDev, OverrideDevFrozen}, LockDevFrozen),
		}
	}

	return plan
}

// Jobs returns the total number of jobs across both stages.
func (p Plan) Jobs() int {
	return len(p.Stage1) + len(p.Stage2)
}
