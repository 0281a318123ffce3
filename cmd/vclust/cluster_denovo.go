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

var deNovoCmd = &cobra.Command{
	Use:   "cluster-features-de-novo",
	Short: "De novo clustering of features.",
	Long: `Cluster the features of a feature table based on a user-specified
percent identity threshold of their sequences, without a reference
database.

When a group of features is clustered into a single feature, the frequency
of that feature in a given sample is the sum of the frequencies of the
features that were clustered in that sample. Feature identifiers and
sequences are inherited from the centroid feature of each cluster. See the
vsearch documentation for details on how sequence clustering is performed.`,
	Run: func(cmd *cobra.Command, args []string) {
		tablePath, _ := cmd.Flags().GetString("table")
		seqsPath, _ := cmd.Flags().GetString("sequences")
		percIdentity, _ := cmd.Flags().GetFloat64("perc-identity")
		threads, _ := cmd.Flags().GetInt("threads")
		outTable, _ := cmd.Flags().GetString("output-table")
		outSeqs, _ := cmd.Flags().GetString("output-sequences")

		params := types.ClusterParams{
			PercIdentity: percIdentity,
			Threads:      resolveThreads(threads),
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

		ctx := context.Background()
		runner := newRunner()
		clustered, centroids, err := cluster.DeNovo(ctx, cluster.Deps{Runner: runner}, tbl, seqs, params)
		if err != nil {
			fail(err)
		}

		if err := table.WriteFile(outTable, clustered); err != nil {
			fail(err)
		}
		if err := fasta.WriteFile(outSeqs, centroids); err != nil {
			fail(err)
		}

		recordRun(ctx, "cluster-features-de-novo", map[string]string{
			"perc-identity": strconv.FormatFloat(params.PercIdentity, 'f', -1, 64),
			"threads":       strconv.Itoa(params.Threads),
		}, runner, []provenance.Artifact{
			provenance.NewArtifact("clustered-table", outTable),
			provenance.NewArtifact("clustered-sequences", outSeqs),
		})

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Clustered %d features into %d at %.0f%% identity\n",
			green("✓"), tbl.NumFeatures(), clustered.NumFeatures(), params.PercIdentity*100)
		fmt.Printf("  Table:     %s\n", outTable)
		fmt.Printf("  Sequences: %s\n", outSeqs)
	},
}

func init() {
	deNovoCmd.Flags().String("table", "", "the feature table to be clustered (TSV)")
	deNovoCmd.Flags().String("sequences", "", "the sequences corresponding to the features in table (FASTA)")
	deNovoCmd.Flags().Float64("perc-identity", 0, "the percent identity at which clustering should be performed; maps to vsearch's --id")
	deNovoCmd.Flags().Int("threads", -1, "threads to use for computation; 0 launches one thread per CPU core")
	deNovoCmd.Flags().String("output-table", "", "where to write the table following clustering of features")
	deNovoCmd.Flags().String("output-sequences", "", "where to write the sequences representing clustered features")
	for _, f := range []string{"table", "sequences", "perc-identity", "output-table", "output-sequences"} {
		_ = deNovoCmd.MarkFlagRequired(f)
	}
	rootCmd.AddCommand(deNovoCmd)
}
