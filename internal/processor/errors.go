package processor

import (
	"regexp"
	"strings"
)

// Pre-compiled regexes for classifying processor stderr into operator
// hints. Checked in order by [Diagnose]; the first match wins.
var (
	reMissingModule = regexp.MustCompile(
		`(?i)ModuleNotFoundError|ImportError|No module named`)

	reUsageError = regexp.MustCompile(
		`(?i)Usage: .*|Error: No such (command|option)|Error: Invalid value|unrecognized arguments`)

	reDecodeError = regexp.MustCompile(
		`(?i)could not decode|CouldntDecodeError|file does not start with RIFF id|` +
			`not a WAVE file|Unknown format|Invalid data found when processing input`)

	reDiskFull = regexp.MustCompile(
		`(?i)No space left on device`)

	rePermission = regexp.MustCompile(
		`(?i)Permission denied|Operation not permitted`)
)

// Diagnose returns a short operator hint for a failed processor's stderr,
// or "" when no known failure pattern matches.
func Diagnose(stderr string) string {
	switch {
	case reMissingModule.MatchString(stderr):
		return "processor is missing a dependency (check its installation)"
	case reUsageError.MatchString(stderr):
		return "processor rejected its arguments (check the processor version or custom command)"
	case reDecodeError.MatchString(stderr):
		return "an input file could not be decoded (check the audio format)"
	case reDiskFull.MatchString(stderr):
		return "disk full while writing stage output"
	case rePermission.MatchString(stderr):
		return "permission denied reading input or writing stage output"
	}
	return ""
}

// Tail returns at most the last n lines of stderr, for error logs.
func Tail(stderr string, n int) []string {
	trimmed := strings.TrimSpace(stderr)
	if trimmed == "" || n <= 0 {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
