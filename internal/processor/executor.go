package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/backmassage/wavprep/internal/config"
)

// Result holds the outcome of a single processor invocation. Err is nil
// exactly when the processor exited with status 0.
type Result struct {
	Args     []string
	Stderr   string
	ExitCode int // -1 when the process could not be started or was killed.
	Err      error
}

// OK reports whether the processor signaled success.
func (r Result) OK() bool { return r.Err == nil }

// Processor transforms every file under src into dst. Implementations must
// treat src as read-only; dst exists before Process is called.
type Processor interface {
	Process(ctx context.Context, src, dst string) Result
}

// Command is the production Processor: it runs the command line produced
// by [Build] for its kind.
type Command struct {
	cfg  *config.Config
	kind Kind
	tee  io.Writer
}

// NewCommand returns a Command for kind. When tee is non-nil the
// processor's stdout and stderr are copied to it in real time; stderr is
// always captured for diagnostics.
func NewCommand(cfg *config.Config, kind Kind, tee io.Writer) *Command {
	return &Command{cfg: cfg, kind: kind, tee: tee}
}

// Process implements [Processor].
func (c *Command) Process(ctx context.Context, src, dst string) Result {
	return Execute(ctx, Build(c.cfg, c.kind, src, dst), c.tee)
}

// Execute runs args[0] with the remaining arguments and waits for it to
// exit. No timeout is applied; the call blocks until the process exits or
// ctx is cancelled by the caller.
func Execute(ctx context.Context, args []string, tee io.Writer) Result {
	res := Result{Args: args, ExitCode: -1}
	if len(args) == 0 {
		res.Err = errors.New("empty processor command")
		return res
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if tee != nil {
		// stdout and stderr are copied by separate goroutines.
		tee = &lockedWriter{w: tee}
		cmd.Stdout = tee
		cmd.Stderr = io.MultiWriter(&stderrBuf, tee)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	res.Stderr = stderrBuf.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		res.Err = fmt.Errorf("%s exited with status %d", args[0], res.ExitCode)
	default:
		res.Err = fmt.Errorf("run %s: %w", args[0], err)
	}
	return res
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
