// Package stamp rewrites generated lock files with a provenance header.
//
// The compiler does not let us customize its header, so we write our
// own. It also needs -o DEST pointing at the existing lock file or it
// will bump >= pins that are already satisfied, which means we cannot
// write to a side file and rename: the whole file is read back and
// rewritten in place.
package stamp

import (
	"fmt"
	"io"
	"os"
)

// Header is prepended to every regenerated lock file.
const Header = "# DO NOT MODIFY. This file was generated with `make freeze-requirements`.\n\n"

// File prepends the provenance header to the file at path. The original
// bytes are preserved exactly after the header; no re-encoding and no
// line-ending normalization. The caller must be the only writer.
func File(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("stamping %s: %w", path, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("stamping %s: %w", path, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("stamping %s: %w", path, err)
	}
	if _, err := f.Write([]byte(Header)); err != nil {
		return fmt.Errorf("stamping %s: %w", path, err)
	}
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("stamping %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("stamping %s: %w", path, err)
	}
	return nil
}
