// Package display renders the startup banner and human-readable sizes and
// durations for status lines.
package display

import (
	"fmt"
	"io"

	"github.com/backmassage/wavprep/internal/term"
)

// PrintBanner writes the ASCII art banner to w, in magenta when colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Wrap(term.Magenta, `__      ____ ___   ___ __  _ __ ___ _ __
\ \ /\ / / _`+"`"+` \ \ / / '_ \| '__/ _ \ '_ \
 \ V  V / (_| |\ V /| |_) | | |  __/ |_) |
  \_/\_/ \__,_| \_/ | .__/|_|  \___| .__/
                    |_|            |_|`))
}
