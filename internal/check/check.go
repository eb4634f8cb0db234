// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for the stage processors.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/wavprep/internal/config"
	"github.com/backmassage/wavprep/internal/processor"
)

// ErrProcessorNotFound is returned by CheckDeps when a stage's processor
// executable cannot be resolved.
var ErrProcessorNotFound = errors.New("processor not found on PATH")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints the resolved processor
// for every stage and whether the default tool answers --help. It reports
// whether every stage's processor is available.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := true
	for _, kind := range processor.Kinds {
		exe := processor.Executable(cfg, kind)
		path, err := exec.LookPath(exe)
		if err != nil {
			log.Error("%-9s %s not found", kind, exe)
			ok = false
			continue
		}
		log.Success("%-9s %s", kind, path)
	}

	if usesDefaultTool(cfg) {
		checkTool(cfg.Tool, log)
	}
	return ok
}

// checkTool runs "<tool> --help" to catch installations whose launcher
// exists but cannot start (e.g. a broken Python environment).
func checkTool(tool string, log Logger) {
	if _, err := exec.LookPath(tool); err != nil {
		return
	}
	if runSilent(tool, "--help") {
		log.Success("%s responds to --help", tool)
	} else {
		log.Warn("%s found but --help failed; the processor may be broken", tool)
	}
}

// CheckDeps is the pre-pipeline validation: every stage's processor must
// resolve on PATH (or be an executable path). Returns an error wrapping
// ErrProcessorNotFound that names the first missing stage.
func CheckDeps(cfg *config.Config) error {
	for _, kind := range processor.Kinds {
		exe := processor.Executable(cfg, kind)
		if _, err := exec.LookPath(exe); err != nil {
			return fmt.Errorf("%w: %s (for %s)", ErrProcessorNotFound, exe, kind)
		}
	}
	return nil
}

// --- internal helpers ---

// usesDefaultTool reports whether any stage runs a subcommand of cfg.Tool.
func usesDefaultTool(cfg *config.Config) bool {
	if strings.TrimSpace(cfg.Tool) == "" {
		return false
	}
	for _, kind := range processor.Kinds {
		if processor.Executable(cfg, kind) == cfg.Tool {
			return true
		}
	}
	return false
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
