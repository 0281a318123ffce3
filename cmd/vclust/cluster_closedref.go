package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/otukit/vclust/internal/cluster"
	"github.com/otukit/vclust/internal/fasta"
	"github.com/otukit/vclust/internal/provenance"
	"github.com/otukit/vclust/internal/table"
	"github.com/otukit/vclust/internal/types"
)

var closedRefCmd = &cobra.Command{
	Use:   "cluster-features-closed-reference",
	Short: "Closed-reference clustering of features.",
	Long: `Cluster the features of a feature table against a reference
database based on a user-specified percent identity threshold of their
sequences.

When a group of features is clustered into a single feature, the frequency
of that feature in a given sample is the sum of the frequencies of the
features that were clustered in that sample. Feature identifiers are
inherited from the centroid feature of each cluster. Features which fail
to match any reference sequence are dropped from the table and written to
the unmatched sequences output (vsearch's --notmatched).`,
	Run: func(cmd *cobra.Command, args []string) {
		tablePath, _ := cmd.Flags().GetString("table")
		seqsPath, _ := cmd.Flags().GetString("sequences")
		refPath, _ := cmd.Flags().GetString("reference-sequences")
		percIdentity, _ := cmd.Flags().GetFloat64("perc-identity")
		strand, _ := cmd.Flags().GetString("strand")
		threads, _ := cmd.Flags().GetInt("threads")
		outTable, _ := cmd.Flags().GetString("output-table")
		outUnmatched, _ := cmd.Flags().GetString("output-unmatched")

		params := types.ClusterParams{
			PercIdentity: percIdentity,
			Threads:      resolveThreads(threads),
			Strand:       types.Strand(strand),
		}
		if err := params.Validate(); err != nil {
			fail(err)
		}

		tbl, err := table.ReadFile(tablePath)
		if err != nil {
			fail(err)
		}
		seqs, err := fasta.ReadFile(seqsPath)
		if err != nil {
			fail(err)
		}
		refSeqs, err := fasta.ReadFile(refPath)
		if err != nil {
			fail(err)
		}

		ctx := context.Background()
		runner := newRunner()
		clustered, unmatched, err := cluster.ClosedReference(ctx, cluster.Deps{Runner: runner}, tbl, seqs, refSeqs, params)
		if err != nil {
			fail(err)
		}

		if err := table.WriteFile(outTable, clustered); err != nil {
			fail(err)
		}
		if err := fasta.WriteFile(outUnmatched, unmatched); err != nil {
			fail(err)
		}

		recordRun(ctx, "cluster-features-closed-reference", map[string]string{
			"perc-identity": strconv.FormatFloat(params.PercIdentity, 'f', -1, 64),
			"strand":        string(params.Strand),
			"threads":       strconv.Itoa(params.Threads),
		}, runner, []provenance.Artifact{
			provenance.NewArtifact("clustered-table", outTable),
			provenance.NewArtifact("unmatched-sequences", outUnmatched),
		})

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s Clustered %d features against %d references at %.0f%% identity\n",
			green("✓"), tbl.NumFeatures(), refSeqs.Len(), params.PercIdentity*100)
		fmt.Printf("  Table:     %s (%d features)\n", outTable, clustered.NumFeatures())
		if unmatched.Len() > 0 {
			fmt.Printf("  %s %d features matched no reference sequence: %s\n",
				yellow("⚠"), unmatched.Len(), outUnmatched)
		} else {
			fmt.Printf("  Unmatched: none\n")
		}
	},
}

func init() {
	closedRefCmd.Flags().String("table", "", "the feature table to be clustered (TSV)")
	closedRefCmd.Flags().String("sequences", "", "the sequences corresponding to the features in table (FASTA)")
	closedRefCmd.Flags().String("reference-sequences", "", "the sequences to use as cluster centroids (FASTA)")
	closedRefCmd.Flags().Float64("perc-identity", 0, "the percent identity at which clustering should be performed; maps to vsearch's --id")
	closedRefCmd.Flags().String("strand", "plus", "search plus (forward) or both (forward and reverse complement) strands")
	closedRefCmd.Flags().Int("threads", -1, "threads to use for computation; 0 launches one thread per CPU core")
	closedRefCmd.Flags().String("output-table", "", "where to write the table following clustering of features")
	closedRefCmd.Flags().String("output-unmatched", "", "where to write the sequences which failed to match any reference sequence")
	for _, f := range []string{"table", "sequences", "reference-sequences", "perc-identity", "output-table", "output-unmatched"} {
		_ = closedRefCmd.MarkFlagRequired(f)
	}
	rootCmd.AddCommand(closedRefCmd)
}
