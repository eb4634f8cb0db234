package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/backmassage/wavprep/internal/config"
)

// errNotOwned is returned by commit for any path that is not one of the
// run's own staging directories.
var errNotOwned = errors.New("not a staging directory of this run")

// pipelineRun is the mutable state of one invocation: resolved paths and
// the staging directories it owns.
type pipelineRun struct {
	inputDir  string
	outputDir string
	staging   []string // One per stage, in order.
}

func newPipelineRun(inputAbs, outputAbs string, stages []Stage) *pipelineRun {
	r := &pipelineRun{inputDir: inputAbs, outputDir: outputAbs}
	for _, st := range stages {
		r.staging = append(r.staging, filepath.Join(outputAbs, st.DirName))
	}
	return r
}

// sourceFor returns the directory stage i reads from.
func (r *pipelineRun) sourceFor(i int) string {
	if i == 0 {
		return r.inputDir
	}
	return r.staging[i-1]
}

func (r *pipelineRun) owns(dir string) bool {
	for _, s := range r.staging {
		if s == dir {
			return true
		}
	}
	return false
}

// commit deletes a consumed source directory after the stage that read it
// succeeded. The original input is never deleted: for it commit is a no-op
// reporting removed=false. Any other path must be a staging directory owned
// by this run that neither is nor contains the input directory.
func (r *pipelineRun) commit(dir string) (removed bool, err error) {
	dir = filepath.Clean(dir)
	if dir == r.inputDir {
		return false, nil
	}
	if !r.owns(dir) {
		return false, fmt.Errorf("refusing to delete %s: %w", dir, errNotOwned)
	}
	if config.IsWithin(r.inputDir, dir) {
		return false, fmt.Errorf("refusing to delete %s: it contains the input directory", dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("remove %s: %w", dir, err)
	}
	return true, nil
}

// resetStaging removes staging directories left behind by an earlier run,
// so every stage writes into an empty directory and nothing stale can be
// promoted. Every staging path is inspected before anything is removed: a
// symlink or non-directory is refused, since a stage writing through it
// could reach the input tree. It returns the directories it removed.
func (r *pipelineRun) resetStaging() ([]string, error) {
	var stale []string
	for _, dir := range r.staging {
		fi, err := os.Lstat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("inspect staging directory %s: %w", dir, err)
		}
		switch {
		case fi.Mode()&os.ModeSymlink != 0:
			return nil, fmt.Errorf("staging path %s is a symbolic link; remove it and retry", dir)
		case !fi.IsDir():
			return nil, fmt.Errorf("staging path %s exists and is not a directory", dir)
		case config.IsWithin(r.inputDir, dir):
			return nil, fmt.Errorf("staging directory %s contains the input directory", dir)
		}
		stale = append(stale, dir)
	}

	var removed []string
	for _, dir := range stale {
		if err := os.RemoveAll(dir); err != nil {
			return removed, fmt.Errorf("remove stale staging directory %s: %w", dir, err)
		}
		removed = append(removed, dir)
	}
	return removed, nil
}
