package vsearch

import (
	"context"
	"errors"
)

// FakeRunner records invocations and lets tests fabricate vsearch's output
// files without the binary installed
type FakeRunner struct {
	// Calls holds the argv of every invocation in order
	Calls [][]string

	// OnRun, if set, runs in place of the binary. Tests typically parse
	// the argv for output paths and write canned files there.
	OnRun func(ctx context.Context, args []string) error

	// ErrStr, if non-empty, makes every run fail with this message
	ErrStr string

	// Stdout and Stderr are copied into every result
	Stdout []string
	Stderr []string
}

var _ Runner = (*FakeRunner)(nil)

// Run records the call and applies OnRun / ErrStr
func (f *FakeRunner) Run(ctx context.Context, args ...string) (*RunResult, error) {
	argv := make([]string, len(args))
	copy(argv, args)
	f.Calls = append(f.Calls, argv)

	result := &RunResult{Args: argv, Stdout: f.Stdout, Stderr: f.Stderr}
	if f.ErrStr != "" {
		result.ExitCode = 1
		return result, errors.New(f.ErrStr)
	}
	if f.OnRun != nil {
		if err := f.OnRun(ctx, argv); err != nil {
			result.ExitCode = 1
			return result, err
		}
	}
	return result, nil
}

// LastCall returns the argv of the most recent invocation, or nil
func (f *FakeRunner) LastCall() []string {
	if len(f.Calls) == 0 {
		return nil
	}
	return f.Calls[len(f.Calls)-1]
}
