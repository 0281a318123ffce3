package main

import (
	"context"
	"fmt"
	"os"

	"github.com/otukit/vclust/internal/provenance"
	"github.com/otukit/vclust/internal/vsearch"
)

// fail prints an error the way every command reports failure and exits
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// newRunner builds the configured vsearch runner, wrapped so the executed
// command lines can be logged afterwards
func newRunner() *vsearch.Recording {
	return &vsearch.Recording{Inner: &vsearch.ExecRunner{Binary: cfg.VsearchPath}}
}

// recordRun appends one row to the run log if one is configured. Logging
// is best-effort: a failure here warns but never fails the invocation.
func recordRun(ctx context.Context, method string, params map[string]string, rec *vsearch.Recording, outputs []provenance.Artifact) {
	if cfg.DBPath == "" {
		return
	}
	store, err := provenance.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to open run log: %v\n", err)
		return
	}
	defer store.Close()

	run := provenance.NewRun(method)
	run.Parameters = params
	run.Outputs = outputs
	if last := rec.Last(); last != nil {
		run.Argv = last.Args
		run.ExitCode = last.ExitCode
		run.Duration = last.Duration
	}
	if err := store.RecordRun(ctx, run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record run: %v\n", err)
	}
}

// resolveThreads applies the configured default when the flag was not set
func resolveThreads(threads int) int {
	if threads < 0 {
		return cfg.Threads
	}
	return threads
}
