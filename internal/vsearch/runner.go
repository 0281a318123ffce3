// Package vsearch invokes the external vsearch binary and parses the
// files it produces. Nothing in this package implements alignment or
// clustering; it builds command lines, surfaces exit status, and decodes
// the .uc cluster membership format.
package vsearch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBinary is resolved from PATH when no explicit path is
	// configured
	DefaultBinary = "vsearch"

	// maxCapturedLines caps per-stream output retention so a chatty run
	// cannot exhaust memory
	maxCapturedLines = 1000
)

// RunResult contains the outcome of a vsearch invocation
type RunResult struct {
	Args     []string
	ExitCode int
	Stdout   []string // capped at maxCapturedLines
	Stderr   []string // capped at maxCapturedLines
	Duration time.Duration
}

// Runner executes vsearch. The single-method interface exists so the
// operations can be tested without the binary installed.
type Runner interface {
	Run(ctx context.Context, args ...string) (*RunResult, error)
}

// ExecRunner runs the real binary via os/exec
type ExecRunner struct {
	// Binary is the vsearch executable path; empty means DefaultBinary
	Binary string
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) binary() string {
	if r.Binary != "" {
		return r.Binary
	}
	return DefaultBinary
}

// Run invokes vsearch and waits for it to finish. Cancelling ctx kills the
// process. A non-zero exit becomes an error carrying the exit code and the
// tail of stderr; the partial result is still returned for logging.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (*RunResult, error) {
	cmd := exec.CommandContext(ctx, r.binary(), args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", r.binary(), err)
	}

	result := &RunResult{Args: args}

	var g errgroup.Group
	g.Go(func() error {
		return captureLines(stdout, &result.Stdout)
	})
	g.Go(func() error {
		return captureLines(stderr, &result.Stderr)
	})
	captureErr := g.Wait()

	waitErr := cmd.Wait()
	result.Duration = time.Since(start)

	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		if ctx.Err() != nil {
			return result, fmt.Errorf("vsearch was cancelled: %w", ctx.Err())
		}
		return result, fmt.Errorf("vsearch exited with status %d: %s", result.ExitCode, stderrTail(result.Stderr, 5))
	}
	if captureErr != nil {
		return result, fmt.Errorf("failed to capture vsearch output: %w", captureErr)
	}
	return result, nil
}

// captureLines scans a stream into dst, keeping at most maxCapturedLines
// and marking truncation once
func captureLines(r io.Reader, dst *[]string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(*dst) < maxCapturedLines {
			*dst = append(*dst, scanner.Text())
		} else if len(*dst) == maxCapturedLines {
			*dst = append(*dst, "[... output truncated: limit reached ...]")
		}
	}
	return scanner.Err()
}

// stderrTail joins the last n captured stderr lines for error messages
func stderrTail(lines []string, n int) string {
	if len(lines) == 0 {
		return "(no stderr output)"
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " / ")
}
