package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// promoteResult counts what promotion moved.
type promoteResult struct {
	Entries int   // Top-level entries moved.
	Files   int   // Regular files contained in them.
	Bytes   int64 // Total size of those files.
}

// promote moves every entry of stagingDir into outputDir and then removes
// the emptied stagingDir. Collisions with existing entries in outputDir are
// detected before anything moves, and nothing is ever overwritten or
// deleted on failure: whatever has not been moved stays in stagingDir.
func promote(stagingDir, outputDir string) (promoteResult, error) {
	var res promoteResult

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", stagingDir, err)
	}

	for _, e := range entries {
		dst := filepath.Join(outputDir, e.Name())
		_, err := os.Lstat(dst)
		if err == nil {
			return res, fmt.Errorf("%s already exists in the output directory", e.Name())
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("stat %s: %w", dst, err)
		}
	}

	for _, e := range entries {
		src := filepath.Join(stagingDir, e.Name())
		files, size, err := treeSize(src)
		if err != nil {
			return res, fmt.Errorf("inspect %s: %w", src, err)
		}
		if err := os.Rename(src, filepath.Join(outputDir, e.Name())); err != nil {
			return res, fmt.Errorf("move %s: %w", e.Name(), err)
		}
		res.Entries++
		res.Files += files
		res.Bytes += size
	}

	if err := os.Remove(stagingDir); err != nil {
		return res, fmt.Errorf("all files moved, but could not remove empty %s: %w", stagingDir, err)
	}
	return res, nil
}
