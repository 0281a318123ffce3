package vsearch

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otukit/vclust/internal/types"
)

func TestDeNovoArgs(t *testing.T) {
	params := types.ClusterParams{PercIdentity: 0.97, Threads: 4}
	args := DeNovoArgs("in.fasta", "centroids.fasta", "out.uc", params)
	want := []string{
		"--cluster_size", "in.fasta",
		"--id", "0.97",
		"--centroids", "centroids.fasta",
		"--uc", "out.uc",
		"--xsize",
		"--threads", "4",
		"--qmask", "none",
		"--minseqlength", "1",
		"--fasta_width", "0",
	}
	assert.Equal(t, want, args)
}

func TestClosedRefArgs(t *testing.T) {
	params := types.ClusterParams{PercIdentity: 1, Threads: 0, Strand: types.StrandBoth}
	args := ClosedRefArgs("in.fasta", "ref.fasta", "unmatched.fasta", "out.uc", params)
	want := []string{
		"--usearch_global", "in.fasta",
		"--id", "1",
		"--db", "ref.fasta",
		"--uc", "out.uc",
		"--strand", "both",
		"--notmatched", "unmatched.fasta",
		"--threads", "0",
		"--qmask", "none",
		"--minseqlength", "1",
		"--fasta_width", "0",
	}
	assert.Equal(t, want, args)
}

func TestDerepArgs(t *testing.T) {
	args := DerepArgs("in.fasta", "out.fasta", "out.uc")
	want := []string{
		"--derep_fulllength", "in.fasta",
		"--output", "out.fasta",
		"--uc", "out.uc",
		"--qmask", "none",
		"--minseqlength", "1",
		"--fasta_width", "0",
	}
	assert.Equal(t, want, args)
}

func TestParseUC(t *testing.T) {
	input := strings.Join([]string{
		"S\t0\t4\t*\t*\t*\t*\t*\tf1;size=10\t*",
		"H\t0\t4\t100.0\t+\t0\t0\t4M\tf2;size=3\tf1;size=10",
		"S\t1\t4\t*\t*\t*\t*\t*\tf3\t*",
		"N\t*\t4\t*\t*\t*\t*\t*\tf4\t*",
		"C\t0\t2\t*\t*\t*\t*\t*\tf1;size=10\t*",
		"",
	}, "\n")

	m, err := ParseUC(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "f1", m.ClusterMap["f1"], "seed maps to itself")
	assert.Equal(t, "f1", m.ClusterMap["f2"], "hit maps to stripped centroid label")
	assert.Equal(t, "f3", m.ClusterMap["f3"])
	assert.Equal(t, []string{"f1", "f3"}, m.Seeds)
	assert.Equal(t, []string{"f4"}, m.Unmatched)
}

func TestParseUCErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"wrong field count", "S\t0\t4\n"},
		{"unknown record type", "X\t0\t4\t*\t*\t*\t*\t*\tq\t*\n"},
		{"hit without target", "H\t0\t4\t100.0\t+\t0\t0\t4M\tq\t*\n"},
		{"seed without label", "S\t0\t4\t*\t*\t*\t*\t*\t*\t*\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUC(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{"vsearch v2.22.1_linux_x86_64, 15.3GB RAM, 8 cores", "v2.22.1", false},
		{"vsearch 2.7.0", "v2.7.0", false},
		{"usearch v11.0.667", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseVersion(tt.line)
		if tt.wantErr {
			assert.Error(t, err, tt.line)
			continue
		}
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got)
	}
}

func TestCheckVersion(t *testing.T) {
	fake := &FakeRunner{Stderr: []string{"vsearch v2.22.1_linux_x86_64, 15.3GB RAM, 8 cores"}}
	version, err := CheckVersion(context.Background(), fake)
	require.NoError(t, err)
	assert.Equal(t, "v2.22.1", version)
	assert.Equal(t, []string{"--version"}, fake.LastCall())

	old := &FakeRunner{Stderr: []string{"vsearch v2.3.4_linux_x86_64"}}
	_, err = CheckVersion(context.Background(), old)
	assert.ErrorContains(t, err, "too old")

	silent := &FakeRunner{Stdout: []string{"no banner here"}}
	_, err = CheckVersion(context.Background(), silent)
	assert.Error(t, err)
}

func TestExecRunnerCapturesOutputAndExitCode(t *testing.T) {
	runner := &ExecRunner{Binary: "/bin/sh"}

	result, err := runner.Run(context.Background(), "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "out")
	assert.Contains(t, result.Stderr, "err")

	result, err = runner.Run(context.Background(), "-c", "echo boom >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.ErrorContains(t, err, "status 3")
	assert.ErrorContains(t, err, "boom")
}

func TestExecRunnerMissingBinary(t *testing.T) {
	runner := &ExecRunner{Binary: "/nonexistent/vsearch"}
	_, err := runner.Run(context.Background(), "--version")
	assert.Error(t, err)
}
