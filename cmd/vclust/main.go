// vclust wraps the vsearch application, providing commands for clustering
// and dereplicating feature tables and sequences. Sequence comparison is
// performed entirely by vsearch; this tool validates parameters, stages
// input files, and repackages vsearch's outputs as feature-table and
// sequence artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/otukit/vclust/internal/config"
)

var (
	cfgFile     string
	vsearchFlag string
	dbFlag      string

	// cfg is resolved once in the root PersistentPreRunE and read by
	// every command
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vclust",
	Short: "Cluster and dereplicate sequencing features with vsearch",
	Long: `vclust wraps the vsearch application and provides methods for
clustering and dereplicating features and sequences.

Feature tables are tab-separated frequency matrices (samples as columns,
features as rows); sequence artifacts are FASTA files. Run 'vclust methods'
for the registered methods and their inputs, parameters, and outputs.

vsearch: Rognes T, Flouri T, Nichols B, Quince C, Mahé F. (2016)
VSEARCH: a versatile open source tool for metagenomics.
PeerJ 4:e2584. doi: 10.7717/peerj.2584`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if vsearchFlag != "" {
			c.VsearchPath = vsearchFlag
		}
		if dbFlag != "" {
			c.DBPath = dbFlag
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default vclust.yaml in the working directory, if present)")
	rootCmd.PersistentFlags().StringVar(&vsearchFlag, "vsearch", "",
		"path to the vsearch executable (default: resolve from PATH)")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "",
		"run log database path (default: run logging disabled)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
