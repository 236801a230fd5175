package worker

import (
	"fmt"
	"io"
)

// Drain blocks on every future in submission order and prints a full
// diagnostic report for each failed job. It never short-circuits: all
// diagnostics for a stage are surfaced even when the run will abort.
// Returns 0 if every job succeeded, 1 otherwise.
func Drain(futures []*Future, w io.Writer) int {
	rc := 0
	for _, fut := range futures {
		res := fut.Wait()
		if res.OK() {
			continue
		}
		rc = 1

		if res.Err != nil {
			fmt.Fprintf(w, "`%s` failed: %v\n\n", res.Job, res.Err)
			continue
		}
		fmt.Fprintf(w, "`%s` returned code %d\n\nstdout:\n%s\n\nstderr:\n%s\n",
			res.Job, res.ExitCode, res.Stdout, res.Stderr)
	}
	return rc
}
