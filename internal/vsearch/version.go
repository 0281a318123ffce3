package vsearch

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/mod/semver"
)

// MinVersion is the oldest vsearch release the wrapper is tested against.
// Older builds lack --fasta_width / --xsize handling the argv builders
// rely on.
const MinVersion = "v2.7.0"

var versionRe = regexp.MustCompile(`vsearch v?(\d+\.\d+\.\d+)`)

// ParseVersion extracts a semver string from `vsearch --version` output
// (e.g. "vsearch v2.22.1_linux_x86_64, 15.3GB RAM, 8 cores")
func ParseVersion(line string) (string, error) {
	matches := versionRe.FindStringSubmatch(line)
	if matches == nil {
		return "", fmt.Errorf("unrecognized vsearch version output: %q", line)
	}
	return "v" + matches[1], nil
}

// CheckVersion runs `vsearch --version` and verifies the reported release
// is at least MinVersion. vsearch prints its banner to stderr, so both
// streams are scanned.
func CheckVersion(ctx context.Context, runner Runner) (string, error) {
	result, err := runner.Run(ctx, "--version")
	if err != nil {
		return "", fmt.Errorf("failed to run vsearch --version: %w", err)
	}
	for _, line := range append(append([]string{}, result.Stderr...), result.Stdout...) {
		version, perr := ParseVersion(line)
		if perr != nil {
			continue
		}
		if semver.Compare(version, MinVersion) < 0 {
			return version, fmt.Errorf("vsearch %s is too old (minimum %s)", version, MinVersion)
		}
		return version, nil
	}
	return "", fmt.Errorf("could not find a version in vsearch --version output")
}
