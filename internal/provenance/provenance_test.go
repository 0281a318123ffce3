package provenance

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := NewRun("cluster-features-de-novo")
	run.Parameters["perc-identity"] = "0.97"
	run.Parameters["threads"] = "4"
	run.Argv = []string{"--cluster_size", "input.fasta", "--id", "0.97"}
	run.ExitCode = 0
	run.Duration = 1500 * time.Millisecond
	run.Outputs = []Artifact{
		NewArtifact("clustered-table", "table.tsv"),
		NewArtifact("clustered-sequences", "seqs.fasta"),
	}
	require.NoError(t, store.RecordRun(ctx, run))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "cluster-features-de-novo", got.Method)
	assert.Equal(t, "0.97", got.Parameters["perc-identity"])
	assert.Equal(t, run.Argv, got.Argv)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	require.Len(t, got.Outputs, 2)
	assert.Equal(t, "clustered-table", got.Outputs[0].Name)
	assert.NotEmpty(t, got.Outputs[0].UUID)
	assert.NotEqual(t, got.Outputs[0].UUID, got.Outputs[1].UUID)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := NewRun("dereplicate-sequences")
	old.StartedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.RecordRun(ctx, old))

	recent := NewRun("cluster-features-closed-reference")
	require.NoError(t, store.RecordRun(ctx, recent))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, recent.ID, runs[0].ID)
	assert.Equal(t, old.ID, runs[1].ID)

	limited, err := store.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, recent.ID, limited[0].ID)
}

func TestRecordRunValidation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run := NewRun("")
	assert.Error(t, store.RecordRun(ctx, run))

	run = &Run{Method: "dereplicate-sequences"}
	assert.Error(t, store.RecordRun(ctx, run))
}
