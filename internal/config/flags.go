package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into resample, normalize, trim, processor, display, and utility.
// Negated flags (e.g. --no-reports) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseFlags parses args (normally os.Args[1:]) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, missing positional args).
func ParseFlags(cfg *Config, version string, args []string) error {
	fs := flag.NewFlagSet("wavprep", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printUsage(version) }

	var negated negatedFlags

	defineResampleFlags(fs, cfg)
	defineNormalizeFlags(fs, cfg)
	defineTrimFlags(fs, cfg, &negated)
	defineProcessorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printUsage(version)
			os.Exit(0)
		}
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "wavprep v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	noReports   bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineResampleFlags registers -r/--rate and --format.
func defineResampleFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&positiveIntValue{&cfg.SampleRate, "sample rate"}, "rate", "Target sample rate in Hz")
	fs.Var(&positiveIntValue{&cfg.SampleRate, "sample rate"}, "r", "Same as --rate")
	fs.StringVar(&cfg.AudioFormat, "format", cfg.AudioFormat, "Audio format to process (e.g. wav)")
}

// defineNormalizeFlags registers --db.
func defineNormalizeFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&negativeFloatValue{&cfg.TargetLoudness}, "db", "Target loudness in dBFS (negative)")
}

// defineTrimFlags registers --silence-thresh, --min-silence-len, --padding, --no-reports.
func defineTrimFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.IntVar(&cfg.SilenceThresh, "silence-thresh", cfg.SilenceThresh, "Silence threshold in dBFS")
	fs.Var(&positiveIntValue{&cfg.MinSilenceLen, "minimum silence length"}, "min-silence-len", "Minimum silence length in ms")
	fs.IntVar(&cfg.Padding, "padding", cfg.Padding, "Padding around non-silent segments in ms")
	fs.BoolVar(&n.noReports, "no-reports", false, "Do not create trim report files")
}

// defineProcessorFlags registers --tool and the per-stage command overrides.
func defineProcessorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Tool, "tool", cfg.Tool, "Processor executable for the default stage commands")
	fs.StringVar(&cfg.ResampleCmd, "resample-cmd", "", "Custom resample command (invoked as CMD SRC DST)")
	fs.StringVar(&cfg.NormalizeCmd, "normalize-cmd", "", "Custom normalize command (invoked as CMD SRC DST)")
	fs.StringVar(&cfg.TrimCmd, "trim-cmd", "", "Custom trim command (invoked as CMD SRC DST)")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log, --metrics-file.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run processor diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus textfile metrics")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noReports {
		cfg.CreateReports = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir and OutputDir from the two positional args when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		if len(args) > 2 && hasFlagLike(args[2:]) {
			return fmt.Errorf("need exactly input_dir and output_dir (got %d arguments); options must come before the directories", len(args))
		}
		return fmt.Errorf("need exactly input_dir and output_dir (got %d arguments)", len(args))
	}
	cfg.InputDir = NormalizeDirArg(args[0])
	cfg.OutputDir = NormalizeDirArg(args[1])
	return nil
}

// hasFlagLike reports whether any arg looks like an option. flag stops
// parsing at the first positional argument, so trailing options end up here.
func hasFlagLike(args []string) bool {
	for _, a := range args {
		if len(a) > 1 && a[0] == '-' {
			return true
		}
	}
	return false
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 30
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "wavprep v" + version + " - WAV corpus preprocessing pipeline (resample -> normalize -> trim)"},
		{"", ""},
		{"  wavprep [OPTIONS] <input_dir> <output_dir>", ""},
		{"  Options must come before the directories.", ""},
		{"", ""},
		{"Resample", ""},
		{"  -r, --rate <hz>", "Target sample rate (default: 22050)"},
		{"  --format <ext>", "Audio format to process (default: wav)"},
		{"", ""},
		{"Normalize", ""},
		{"  --db <dbfs>", "Target loudness, negative (default: -23.0)"},
		{"", ""},
		{"Trim silence", ""},
		{"  --silence-thresh <dbfs>", "Silence threshold, negative (default: -40)"},
		{"  --min-silence-len <ms>", "Minimum silence length (default: 500)"},
		{"  --padding <ms>", "Padding kept around speech (default: 50)"},
		{"  --no-reports", "Do not create .txt trim reports"},
		{"", ""},
		{"Processors", ""},
		{"  --tool <path>", "Processor executable (default: audiotools)"},
		{"  --resample-cmd <cmd>", "Custom resample command, run as CMD SRC DST"},
		{"  --normalize-cmd <cmd>", "Custom normalize command, run as CMD SRC DST"},
		{"  --trim-cmd <cmd>", "Custom trim command, run as CMD SRC DST"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output (show processor stderr live)"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  --metrics-file <path>", "Write Prometheus textfile metrics"},
		{"  -c, --check", "Check that stage processors are available"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters for validated numeric fields.

type positiveIntValue struct {
	p    *int
	name string
}

func (v *positiveIntValue) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.Itoa(*v.p)
}

func (v *positiveIntValue) Set(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("%s must be a positive whole number (got %q)", v.name, s)
	}
	*v.p = n
	return nil
}

// negativeFloatValue accepts only negative numbers, since loudness targets
// in dBFS cannot be positive.
type negativeFloatValue struct{ p *float64 }

func (v *negativeFloatValue) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatFloat(*v.p, 'f', -1, 64)
}

func (v *negativeFloatValue) Set(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("%q is not a valid number; loudness in dBFS must be numeric", s)
	}
	if f >= 0 {
		return fmt.Errorf("%s is not a negative number; loudness in dBFS cannot be positive", s)
	}
	*v.p = f
	return nil
}
