package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/wavprep/internal/config"
	"github.com/backmassage/wavprep/internal/display"
	"github.com/backmassage/wavprep/internal/logging"
	"github.com/backmassage/wavprep/internal/processor"
)

// stderrTailLines is how many trailing lines of a failed processor's stderr
// are logged.
const stderrTailLines = 20

// Run executes stages in order over cfg.InputDir, staging under
// cfg.OutputDir, and promotes the last stage's output into cfg.OutputDir.
//
// It returns a *PreconditionError before any stage runs, a *StageError for
// the first stage whose processor fails, or a *PromotionError if the final
// move fails. Stats are returned in every case.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, stages []Stage) (stats RunStats, err error) {
	stats = RunStats{
		RunID:   uuid.NewString(),
		Current: -1,
		Started: time.Now(),
		Stages:  make([]StageResult, len(stages)),
	}
	for i, st := range stages {
		stats.Stages[i] = StageResult{Name: st.Name, Status: StatusPending, ExitCode: -1}
	}
	defer func() { stats.Duration = time.Since(stats.Started) }()

	if len(stages) == 0 {
		return stats, &PreconditionError{Err: errors.New("no stages configured")}
	}

	inputAbs, outputAbs, err := preparePaths(cfg)
	if err != nil {
		return stats, err
	}

	run := newPipelineRun(inputAbs, outputAbs, stages)

	stale, err := run.resetStaging()
	for _, dir := range stale {
		log.Warn("Removed intermediate directory from a previous run: %s", dir)
	}
	if err != nil {
		return stats, &PreconditionError{Path: cfg.OutputDir, Err: err}
	}

	files, err := Discover(inputAbs, cfg.AudioFormat)
	if err != nil {
		return stats, &PreconditionError{Path: cfg.InputDir, Err: fmt.Errorf("input directory is not readable: %w", err)}
	}
	stats.InputFiles = len(files)

	log.Info("Run %s", stats.RunID)
	log.Info("Found %s in %s", display.Plural(len(files), "audio file", "audio files"), cfg.InputDir)
	if len(files) == 0 {
		log.Warn("No audio files found; processors will run on an empty corpus")
	}

	for i, st := range stages {
		stats.Current = i
		src := run.sourceFor(i)
		dst := run.staging[i]

		log.Info("")
		log.Stage("Step %d/%d: %s", i+1, len(stages), st.Name)
		log.Debug(log.Verbose(), "  %s -> %s", src, dst)

		if err := os.MkdirAll(dst, 0o755); err != nil {
			stats.Stages[i].Status = StatusFailed
			log.Error("Cannot create staging directory %s: %v", dst, err)
			log.Error("Pipeline aborted at %s step", st.Name)
			return stats, &StageError{Stage: st.Name, ExitCode: -1, Err: err}
		}

		stats.Stages[i].Status = StatusRunning
		start := time.Now()
		res := st.Processor.Process(ctx, src, dst)
		stats.Stages[i].Duration = time.Since(start)
		stats.Stages[i].ExitCode = res.ExitCode

		if !res.OK() {
			stats.Stages[i].Status = StatusFailed
			logStageFailure(log, run, i, st, res)
			return stats, &StageError{Stage: st.Name, ExitCode: res.ExitCode, Err: res.Err}
		}

		stats.Stages[i].Status = StatusSucceeded
		log.Success("%s finished in %s. Output in: %s",
			st.Name, display.FormatDuration(stats.Stages[i].Duration), dst)

		removed, err := run.commit(src)
		switch {
		case err != nil:
			log.Warn("Could not remove intermediate directory after %s: %v", st.Name, err)
		case removed:
			log.Info("Removed intermediate directory: %s", src)
		}
	}

	final := run.staging[len(stages)-1]
	log.Info("")
	log.Stage("Moving processed files to %s", cfg.OutputDir)
	pr, err := promote(final, outputAbs)
	stats.PromotedEntries = pr.Entries
	stats.PromotedFiles = pr.Files
	stats.PromotedBytes = pr.Bytes
	if err != nil {
		log.Error("Could not move processed files into %s: %v", cfg.OutputDir, err)
		log.Error("Nothing was deleted. Processed files remain in %s; inspect and move them manually.", final)
		return stats, &PromotionError{StagingDir: final, Moved: pr.Entries, Err: err}
	}

	stats.Success = true
	logSummary(log, &stats, pr)
	return stats, nil
}

// preparePaths validates the input directory, creates the output
// directory, and returns both as absolute, symlink-resolved paths that are
// safe to stage under.
func preparePaths(cfg *config.Config) (string, string, error) {
	fi, err := os.Stat(cfg.InputDir)
	if err != nil {
		return "", "", &PreconditionError{Path: cfg.InputDir, Err: fmt.Errorf("input directory not found: %w", err)}
	}
	if !fi.IsDir() {
		return "", "", &PreconditionError{Path: cfg.InputDir, Err: errors.New("input path is not a directory")}
	}
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		return "", "", &PreconditionError{Path: cfg.InputDir, Err: err}
	}

	// Reject unsafe nesting before MkdirAll can create anything inside the
	// input tree; the resolved paths are checked again below.
	inputLex, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		return "", "", &PreconditionError{Path: cfg.InputDir, Err: err}
	}
	outputLex, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return "", "", &PreconditionError{Path: cfg.OutputDir, Err: err}
	}
	for _, in := range []string{inputLex, inputAbs} {
		if err := cfg.ValidatePaths(in, outputLex); err != nil {
			return "", "", &PreconditionError{Err: err}
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", "", &PreconditionError{Path: cfg.OutputDir, Err: fmt.Errorf("cannot create output directory: %w", err)}
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		return "", "", &PreconditionError{Path: cfg.OutputDir, Err: err}
	}

	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		return "", "", &PreconditionError{Err: err}
	}
	return inputAbs, outputAbs, nil
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of input vs output directory hierarchies.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func logStageFailure(log *logging.Logger, run *pipelineRun, i int, st Stage, res processor.Result) {
	log.Error("Error during %s: %v", st.Name, res.Err)
	if hint := processor.Diagnose(res.Stderr); hint != "" {
		log.Error("Hint: %s", hint)
	}
	if tail := processor.Tail(res.Stderr, stderrTailLines); len(tail) > 0 {
		log.Error("Last %s output:", st.Name)
		for _, l := range tail {
			log.Error("  %s", l)
		}
	}
	log.Error("Pipeline aborted at %s step", st.Name)
	kept := []string{run.staging[i]}
	if i > 0 {
		kept = append([]string{run.staging[i-1]}, kept...)
	}
	for _, dir := range kept {
		log.Warn("Left in place for inspection: %s", dir)
	}
}

func logSummary(log *logging.Logger, stats *RunStats, pr promoteResult) {
	log.Info("")
	log.Info("==============================")
	for _, r := range stats.Stages {
		log.Info("  %-10s %s (%s)", r.Name, r.Status, display.FormatDuration(r.Duration))
	}
	log.Info("  Promoted:  %s, %s",
		display.Plural(pr.Files, "file", "files"), display.FormatBytes(pr.Bytes))
	log.Success("Audio preprocessing pipeline completed successfully in %s",
		display.FormatDuration(time.Since(stats.Started)))
}
