// Command wavprep is the CLI entrypoint for the WAV preprocessing pipeline.
//
// It parses flags, validates configuration, and either runs processor
// diagnostics (--check) or the resample -> normalize -> trim pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/backmassage/wavprep/internal/check"
	"github.com/backmassage/wavprep/internal/config"
	"github.com/backmassage/wavprep/internal/display"
	"github.com/backmassage/wavprep/internal/logging"
	"github.com/backmassage/wavprep/internal/metrics"
	"github.com/backmassage/wavprep/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "wavprep: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "wavprep: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wavprep: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	log.Info("=== wavprep v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	log.Info("Resample to %d Hz, normalize to %g dB, trim below %d dB",
		cfg.SampleRate, cfg.TargetLoudness, cfg.SilenceThresh)
	log.Info("")

	// Fail fast if a stage's processor is unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		log.Error("Run with --check for details, or set --tool / --<stage>-cmd")
		return 1
	}

	// Phase 3: Run the pipeline. No cancellation is installed: once a
	// processor starts, the run waits for it to exit.
	var tee io.Writer
	if cfg.Verbose {
		tee = log.Output()
	}
	stats, err := pipeline.Run(context.Background(), &cfg, log, pipeline.DefaultStages(&cfg, tee))

	if cfg.MetricsFile != "" {
		if merr := metrics.Export(cfg.MetricsFile, stats); merr != nil {
			log.Warn("%v", merr)
		} else {
			log.Debug(cfg.Verbose, "Metrics written to %s", cfg.MetricsFile)
		}
	}

	if err != nil {
		var pe *pipeline.PreconditionError
		if errors.As(err, &pe) {
			log.Error("%v", err)
		}
		log.Error("Pipeline failed")
		return 1
	}
	return 0
}
