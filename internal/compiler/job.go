package compiler

import "strings"

// Job is a single invocation of the dependency compiler. The argument
// list is fixed at construction: tool name, flags, input files, and the
// output path as the final token.
type Job struct {
	// Argv is the full command line, including the tool name.
	Argv []string

	// Output is the lock file the tool writes, taken from the final token.
	Output string
}

// NewJob builds a Job from a complete argument list. The last token must
// be the output path (preceded by the -o flag).
func NewJob(argv ...string) Job {
	return Job{
		Argv:   argv,
		Output: argv[len(argv)-1],
	}
}

// String renders the job as the command line it will execute.
// Used to identify the job in failure reports and events.
func (j Job) String() string {
	return strings.Join(j.Argv, " ")
}

// Result is the outcome of running one Job. ExitCode and the captured
// streams come from the subprocess; Err is set when the process could
// not be started or when stamping the output file failed after a
// successful exit.
type Result struct {
	Job      Job
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Err      error
}

// OK reports whether the job succeeded end to end: the tool exited zero,
// the process started cleanly, and the output file was stamped.
func (r Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}
