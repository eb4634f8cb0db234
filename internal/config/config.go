// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Stage parameter defaults match the original WAV preprocessing
// pipeline script.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Staging subdirectory names, created under OutputDir in stage order.
const (
	ResampleDirName  = "resample"
	NormalizeDirName = "norm"
	TrimDirName      = "trim"
)

// StagingDirNames lists the staging subdirectories in execution order.
var StagingDirNames = []string{ResampleDirName, NormalizeDirName, TrimDirName}

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths (set from positional args).
	InputDir  string
	OutputDir string

	// Resample stage.
	SampleRate  int    // Default: 22050 Hz.
	AudioFormat string // Default: "wav". Also used by the trim stage.

	// Normalize stage.
	TargetLoudness float64 // Default: -23.0 dBFS. Must be negative.

	// Trim stage.
	SilenceThresh int  // Default: -40 dBFS. Must be negative.
	MinSilenceLen int  // Default: 500 ms.
	Padding       int  // Default: 50 ms.
	CreateReports bool // Default: true. Cleared by --no-reports.

	// Processor commands. Tool is the executable used for the default
	// command lines; a non-empty per-stage override replaces the whole
	// command and is invoked as "<override...> SRC DST".
	Tool         string // Default: "audiotools".
	ResampleCmd  string
	NormalizeCmd string
	TrimCmd      string

	// Display and logging.
	Verbose     bool
	ColorMode   ColorMode // Default: "auto".
	LogFile     string    // Optional log file path.
	MetricsFile string    // Optional Prometheus textfile path.
	CheckOnly   bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with the original pipeline defaults. Used as
// the base before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		SampleRate:     22050,
		AudioFormat:    "wav",
		TargetLoudness: -23.0,
		SilenceThresh:  -40,
		MinSilenceLen:  500,
		Padding:        50,
		CreateReports:  true,
		Tool:           "audiotools",
		ColorMode:      ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks stage parameters and enum fields. When not in CheckOnly
// mode, it also requires that both directory paths are non-empty.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d (must be a positive number of Hz)", c.SampleRate)
	}
	format, err := normalizeAudioFormat(c.AudioFormat)
	if err != nil {
		return err
	}
	c.AudioFormat = format
	if c.TargetLoudness >= 0 {
		return fmt.Errorf("%v is not a negative number; loudness in dBFS cannot be positive", c.TargetLoudness)
	}
	if c.SilenceThresh >= 0 {
		return fmt.Errorf("%d is not a negative number; silence threshold in dBFS cannot be positive", c.SilenceThresh)
	}
	if c.MinSilenceLen <= 0 {
		return fmt.Errorf("invalid minimum silence length %d ms (must be positive)", c.MinSilenceLen)
	}
	if c.Padding < 0 {
		return fmt.Errorf("invalid padding %d ms (must not be negative)", c.Padding)
	}
	if strings.TrimSpace(c.Tool) == "" && (c.ResampleCmd == "" || c.NormalizeCmd == "" || c.TrimCmd == "") {
		return errors.New("processor tool must not be empty unless every stage command is overridden")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("need exactly input_dir and output_dir")
	}
	return nil
}

// normalizeAudioFormat canonicalizes the --format value.
// Accepted forms: "wav", "WAV", ".wav". Output is lowercase without a dot.
func normalizeAudioFormat(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return "", errors.New("audio format must not be empty")
	}
	if strings.ContainsAny(s, `/\. `) {
		return "", fmt.Errorf("invalid audio format %q (use an extension such as wav or flac)", raw)
	}
	return s, nil
}

// ValidatePaths ensures the pipeline can never write into, or delete, the
// input directory. The output directory must not be inside (or equal to)
// the input directory, and the input directory must not be inside (or equal
// to) any staging directory, since staging directories are deleted once
// consumed. Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if IsWithin(outputAbs, inputAbs) {
		return errors.New("output directory must not be inside input directory")
	}
	for _, name := range StagingDirNames {
		staging := filepath.Join(outputAbs, name)
		if IsWithin(inputAbs, staging) {
			return fmt.Errorf("input directory must not be inside staging directory %s", staging)
		}
	}
	return nil
}

// IsWithin reports whether path equals dir or lies beneath it. Both paths
// should be cleaned and absolute.
func IsWithin(path, dir string) bool {
	sep := string(filepath.Separator)
	return path == dir || strings.HasPrefix(path+sep, strings.TrimSuffix(dir, sep)+sep)
}
