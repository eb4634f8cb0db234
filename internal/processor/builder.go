// Package processor builds and executes the external command lines that do
// the actual audio work for each pipeline stage.
//
// By default every stage is a subcommand of one processor tool (the
// audiotools CLI); any stage can be replaced by a custom command which is
// invoked as "<command...> SRC DST".
package processor

import (
	"strconv"
	"strings"

	"github.com/backmassage/wavprep/internal/config"
)

// Kind identifies which transformation a processor performs.
type Kind string

const (
	Resample  Kind = "resample"
	Normalize Kind = "normalize"
	Trim      Kind = "trim"
)

// Kinds lists every processor kind in pipeline order.
var Kinds = []Kind{Resample, Normalize, Trim}

// Build constructs the complete argument slice (argv[0] first) that
// processes every file under src into dst for the given kind.
func Build(cfg *config.Config, kind Kind, src, dst string) []string {
	if override := overrideFor(cfg, kind); override != "" {
		args := strings.Fields(override)
		return append(args, src, dst)
	}

	args := make([]string, 0, 16)
	args = append(args, cfg.Tool)

	switch kind {
	case Resample:
		args = append(args, "resample-corpus", src, dst,
			"--rate", strconv.Itoa(cfg.SampleRate),
			"--format", cfg.AudioFormat,
		)

	case Normalize:
		args = append(args, "normalize", src, dst,
			"--db", strconv.FormatFloat(cfg.TargetLoudness, 'f', -1, 64),
		)

	case Trim:
		reports := "--reports"
		if !cfg.CreateReports {
			reports = "--no-reports"
		}
		args = append(args, "trim-silence-corpus", src, dst,
			"--db", strconv.Itoa(cfg.SilenceThresh),
			"--min-len", strconv.Itoa(cfg.MinSilenceLen),
			"--padding", strconv.Itoa(cfg.Padding),
			reports,
			"--format", cfg.AudioFormat,
		)
	}
	return args
}

// Executable returns the program that Build would invoke for kind, without
// arguments. Used by dependency checks.
func Executable(cfg *config.Config, kind Kind) string {
	if override := overrideFor(cfg, kind); override != "" {
		return strings.Fields(override)[0]
	}
	return cfg.Tool
}

// overrideFor returns the trimmed custom command for kind, or "" when the
// default command line applies.
func overrideFor(cfg *config.Config, kind Kind) string {
	var s string
	switch kind {
	case Resample:
		s = cfg.ResampleCmd
	case Normalize:
		s = cfg.NormalizeCmd
	case Trim:
		s = cfg.TrimCmd
	}
	return strings.TrimSpace(s)
}
