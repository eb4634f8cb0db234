// Package term holds the ANSI color state shared by the logging and display
// packages. [Configure] sets it once at startup; while colors are off every
// color is the empty string and [Wrap] returns its input unchanged.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/wavprep/internal/config"
)

// ANSI color codes. Empty when colors are disabled.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	NC      = "" // Reset sequence.
)

// env abstracts the process environment so color resolution is testable.
type env struct {
	getenv func(string) string
	isTTY  bool
}

func processEnv() env {
	return env{getenv: os.Getenv, isTTY: IsTerminal(os.Stdout)}
}

// Configure resolves mode against the process environment and sets the
// color variables. It reports whether colors are enabled.
func Configure(mode config.ColorMode) bool {
	on := resolve(mode, processEnv())
	set(on)
	return on
}

func set(on bool) {
	if !on {
		Red, Green, Yellow, Blue, Cyan, Magenta, NC = "", "", "", "", "", "", ""
		return
	}
	Red = "\033[1;91m"
	Green = "\033[1;92m"
	Yellow = "\033[1;93m"
	Blue = "\033[1;94m"
	Cyan = "\033[1;96m"
	Magenta = "\033[1;95m"
	NC = "\033[0m"
}

// Wrap returns s enclosed in color and a reset, or s alone when color is
// empty.
func Wrap(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + NC
}

// resolve applies, in order: explicit --color/--no-color, NO_COLOR
// (https://no-color.org), CLICOLOR_FORCE, and finally TTY detection with
// TERM=dumb treated as colorless.
func resolve(mode config.ColorMode, e env) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if e.getenv("NO_COLOR") != "" {
		return false
	}
	if v := e.getenv("CLICOLOR_FORCE"); v != "" && v != "0" {
		return true
	}
	return e.isTTY && strings.ToLower(e.getenv("TERM")) != "dumb"
}

// IsTerminal reports whether f is attached to a character device.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
