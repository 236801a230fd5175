// Package seed pre-populates a distinct output directory with the
// existing lock files before compilation starts.
//
// The compiler keys its upgrade avoidance on -o DEST already being a
// lock file with >= pins. When the output directory is not the base
// directory the prior lock files must be mirrored there first, or every
// satisfied pin gets bumped.
package seed

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lockfreeze/lockfreeze/internal/graph"
)

// Copy mirrors the fixed lock-file set from baseDir into outDir. A
// missing source file is fatal: seeding is a hard precondition, not a
// best-effort step.
func Copy(baseDir, outDir string) error {
	for _, lock := range graph.LockFiles {
		src := filepath.Join(baseDir, lock)
		dst := filepath.Join(outDir, lock)
		if err := copyFile(src, dst); err != nil {
			return fmt.Errorf("seeding %s: %w", lock, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
