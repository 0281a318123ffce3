package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/otukit/vclust/internal/provenance"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs from the run log",
	Long: `List recent method invocations recorded in the run log: when each
ran, with which parameters, the exact vsearch command line, and the output
artifacts produced.

Run logging is enabled by configuring a database path (--db, VCLUST_DB, or
db_path in vclust.yaml).`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		verbose, _ := cmd.Flags().GetBool("verbose")

		if cfg.DBPath == "" {
			fail(fmt.Errorf("run logging is not configured (set --db, VCLUST_DB, or db_path in vclust.yaml)"))
		}
		store, err := provenance.Open(cfg.DBPath)
		if err != nil {
			fail(err)
		}
		defer store.Close()

		runs, err := store.ListRuns(context.Background(), limit)
		if err != nil {
			fail(err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet")
			return
		}

		bold := color.New(color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		for _, run := range runs {
			status := green("✓")
			if run.ExitCode != 0 {
				status = red(fmt.Sprintf("✗ (exit %d)", run.ExitCode))
			}
			fmt.Printf("%s %s  %s  %s\n", status, bold(run.Method),
				run.StartedAt.Format("2006-01-02 15:04:05"), gray(run.ID))
			if len(run.Parameters) > 0 {
				var parts []string
				for k, v := range run.Parameters {
					parts = append(parts, fmt.Sprintf("%s=%s", k, v))
				}
				fmt.Printf("  Parameters: %s\n", strings.Join(parts, " "))
			}
			for _, out := range run.Outputs {
				fmt.Printf("  Output: %-22s %s %s\n", out.Name, out.Path, gray(out.UUID))
			}
			if verbose && len(run.Argv) > 0 {
				fmt.Printf("  vsearch %s\n", gray(strings.Join(run.Argv, " ")))
			}
			fmt.Printf("  Duration: %v\n", run.Duration)
		}
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyCmd.Flags().Bool("verbose", false, "include the full vsearch command line")
	rootCmd.AddCommand(historyCmd)
}
