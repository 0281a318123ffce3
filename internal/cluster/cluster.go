// Package cluster implements the three registered methods: de novo
// feature clustering, closed-reference feature clustering, and sequence
// dereplication. Each is a stateless call that validates its inputs,
// stages FASTA files in a temp directory, delegates the actual work to
// vsearch, and repackages vsearch's output files as typed artifacts.
package cluster

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/otukit/vclust/internal/fasta"
	"github.com/otukit/vclust/internal/types"
	"github.com/otukit/vclust/internal/vsearch"
)

// Deps carries the external collaborators of an operation
type Deps struct {
	Runner vsearch.Runner
}

func (d Deps) validate() error {
	if d.Runner == nil {
		return fmt.Errorf("runner is required")
	}
	return nil
}

// stageDir creates the temp directory an operation stages its FASTA files
// in. Callers remove it on return; vsearch output files never outlive the
// operation.
func stageDir() (string, func(), error) {
	dir, err := os.MkdirTemp("", "vclust-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

// DeNovo clusters the features of a table by percent identity of their
// sequences, with no reference database. Feature identifiers and sequences
// of the result are inherited from each cluster's centroid; the frequency
// of a clustered feature in a sample is the sum of the frequencies of its
// member features.
func DeNovo(ctx context.Context, deps Deps, tbl *types.FeatureTable, seqs *types.SequenceSet, params types.ClusterParams) (*types.FeatureTable, *types.SequenceSet, error) {
	if err := deps.validate(); err != nil {
		return nil, nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	if err := tbl.ValidateAgainst(seqs); err != nil {
		return nil, nil, err
	}
	if seqs.Len() == 0 {
		return nil, nil, fmt.Errorf("no features to cluster")
	}

	dir, cleanup, err := stageDir()
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	// --cluster_size picks centroids greedily by abundance, so each
	// feature's annotation is its total frequency across samples
	sizes := make(map[string]int64, seqs.Len())
	for _, id := range seqs.IDs() {
		sizes[id] = int64(math.Round(tbl.FeatureTotal(id)))
	}

	input := filepath.Join(dir, "input.fasta")
	centroidsOut := filepath.Join(dir, "centroids.fasta")
	ucOut := filepath.Join(dir, "clusters.uc")
	if err := fasta.WriteFileWithSizes(input, seqs, sizes); err != nil {
		return nil, nil, err
	}

	args := vsearch.DeNovoArgs(input, centroidsOut, ucOut, params)
	if _, err := deps.Runner.Run(ctx, args...); err != nil {
		return nil, nil, fmt.Errorf("de novo clustering failed: %w", err)
	}

	mapping, err := vsearch.ParseUCFile(ucOut)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range seqs.IDs() {
		if _, ok := mapping.ClusterMap[id]; !ok {
			return nil, nil, fmt.Errorf("feature %s is missing from the cluster mapping", id)
		}
	}

	clustered := tbl.CollapseFeatures(mapping.ClusterMap)

	centroids, err := fasta.ReadFile(centroidsOut)
	if err != nil {
		return nil, nil, err
	}
	normalized, err := stripSizeLabels(centroids)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range normalized.IDs() {
		if !clustered.Has(id) {
			return nil, nil, fmt.Errorf("centroid %s has no row in the clustered table", id)
		}
	}
	if normalized.Len() != clustered.NumFeatures() {
		return nil, nil, fmt.Errorf("clustered table has %d features but vsearch reported %d centroids",
			clustered.NumFeatures(), normalized.Len())
	}
	return clustered, normalized, nil
}

// ClosedReference assigns the features of a table to clusters defined by a
// fixed reference database. The clustered table's feature identifiers are
// reference (centroid) identifiers; features that match no reference
// sequence are dropped from the table and returned as the unmatched
// sequence set.
func ClosedReference(ctx context.Context, deps Deps, tbl *types.FeatureTable, seqs, refSeqs *types.SequenceSet, params types.ClusterParams) (*types.FeatureTable, *types.SequenceSet, error) {
	if err := deps.validate(); err != nil {
		return nil, nil, err
	}
	if !params.Strand.IsValid() {
		return nil, nil, fmt.Errorf("strand is required for closed-reference clustering (%s or %s)",
			types.StrandPlus, types.StrandBoth)
	}
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	if err := tbl.ValidateAgainst(seqs); err != nil {
		return nil, nil, err
	}
	if refSeqs.Len() == 0 {
		return nil, nil, fmt.Errorf("reference sequence set is empty")
	}

	dir, cleanup, err := stageDir()
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	input := filepath.Join(dir, "input.fasta")
	ref := filepath.Join(dir, "reference.fasta")
	notMatchedOut := filepath.Join(dir, "unmatched.fasta")
	ucOut := filepath.Join(dir, "clusters.uc")
	if err := fasta.WriteFile(input, seqs); err != nil {
		return nil, nil, err
	}
	if err := fasta.WriteFile(ref, refSeqs); err != nil {
		return nil, nil, err
	}

	args := vsearch.ClosedRefArgs(input, ref, notMatchedOut, ucOut, params)
	if _, err := deps.Runner.Run(ctx, args...); err != nil {
		return nil, nil, fmt.Errorf("closed-reference clustering failed: %w", err)
	}

	mapping, err := vsearch.ParseUCFile(ucOut)
	if err != nil {
		return nil, nil, err
	}
	if len(mapping.ClusterMap) == 0 {
		return nil, nil, fmt.Errorf("no features matched the reference sequences; consider lowering perc-identity or using de novo clustering")
	}

	clustered := tbl.CollapseFeatures(mapping.ClusterMap)

	unmatched := types.NewSequenceSet()
	if _, err := os.Stat(notMatchedOut); err == nil {
		unmatched, err = fasta.ReadFile(notMatchedOut)
		if err != nil {
			// an all-matched run leaves the file empty, which Read
			// handles; any other failure is real
			return nil, nil, err
		}
	}
	return clustered, unmatched, nil
}

// SampleSeqs pairs a sample identifier with that sample's raw sequences
type SampleSeqs struct {
	Sample string
	Seqs   *types.SequenceSet
}

// Dereplicate collapses identical sequences across samples into single
// features and counts per-sample occurrences. Feature identifiers are the
// SHA-1 hex digest of the (uppercased) sequence, so re-running over the
// same data always yields the same identifiers.
func Dereplicate(ctx context.Context, deps Deps, samples []SampleSeqs) (*types.FeatureTable, *types.SequenceSet, error) {
	if err := deps.validate(); err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no samples to dereplicate")
	}

	sampleIDs := make([]string, 0, len(samples))
	seen := make(map[string]bool, len(samples))
	total := 0
	for _, s := range samples {
		if s.Sample == "" {
			return nil, nil, fmt.Errorf("sample ID is required")
		}
		if seen[s.Sample] {
			return nil, nil, fmt.Errorf("duplicate sample ID: %s", s.Sample)
		}
		seen[s.Sample] = true
		sampleIDs = append(sampleIDs, s.Sample)
		total += s.Seqs.Len()
	}
	if total == 0 {
		return nil, nil, fmt.Errorf("no sequences to dereplicate")
	}

	// Stage all reads in one FASTA under synthetic labels so the uc
	// mapping can be folded back into per-sample counts afterwards
	staged := types.NewSequenceSet()
	labelSample := make(map[string]string, total)
	n := 0
	for _, s := range samples {
		err := s.Seqs.Each(func(_, seq string) error {
			label := fmt.Sprintf("r%d", n)
			n++
			labelSample[label] = s.Sample
			return staged.Add(label, seq)
		})
		if err != nil {
			return nil, nil, err
		}
	}

	dir, cleanup, err := stageDir()
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	input := filepath.Join(dir, "input.fasta")
	derepOut := filepath.Join(dir, "dereplicated.fasta")
	ucOut := filepath.Join(dir, "dereplicated.uc")
	if err := fasta.WriteFile(input, staged); err != nil {
		return nil, nil, err
	}

	args := vsearch.DerepArgs(input, derepOut, ucOut)
	if _, err := deps.Runner.Run(ctx, args...); err != nil {
		return nil, nil, fmt.Errorf("dereplication failed: %w", err)
	}

	mapping, err := vsearch.ParseUCFile(ucOut)
	if err != nil {
		return nil, nil, err
	}

	// vsearch labels each dereplicated sequence with the label of its
	// first occurrence; relabel to the sequence hash
	derep, err := fasta.ReadFile(derepOut)
	if err != nil {
		return nil, nil, err
	}
	features := types.NewSequenceSet()
	centroidFeature := make(map[string]string, derep.Len())
	err = derep.Each(func(label, seq string) error {
		id := FeatureID(seq)
		centroidFeature[fasta.StripSize(label)] = id
		return features.Add(id, seq)
	})
	if err != nil {
		return nil, nil, err
	}

	derepTable := types.NewFeatureTable(sampleIDs)
	for _, label := range staged.IDs() {
		centroid, ok := mapping.ClusterMap[label]
		if !ok {
			return nil, nil, fmt.Errorf("read %s is missing from the dereplication mapping", label)
		}
		feature, ok := centroidFeature[centroid]
		if !ok {
			return nil, nil, fmt.Errorf("centroid %s is missing from the dereplicated sequences", centroid)
		}
		derepTable.Increment(feature, labelSample[label], 1)
	}
	return derepTable, features, nil
}

// FeatureID derives a dereplicated feature's identifier from its sequence
// content
func FeatureID(seq string) string {
	sum := sha1.Sum([]byte(strings.ToUpper(seq)))
	return hex.EncodeToString(sum[:])
}

// stripSizeLabels rebuilds a sequence set with ;size= annotations removed
// from its labels
func stripSizeLabels(set *types.SequenceSet) (*types.SequenceSet, error) {
	out := types.NewSequenceSet()
	err := set.Each(func(id, seq string) error {
		return out.Add(fasta.StripSize(id), seq)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
