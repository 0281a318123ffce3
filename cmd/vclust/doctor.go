package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/otukit/vclust/internal/provenance"
	"github.com/otukit/vclust/internal/vsearch"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the vclust installation and environment",
	Long: `Run health checks to diagnose common configuration issues.

This command checks for:
- The vsearch executable (PATH or configured location)
- The vsearch version against the tested minimum
- Run log database accessibility, when configured

Exit codes:
  0 - All checks passed
  1 - One or more checks failed`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Running vclust health checks...\n\n")
		failures := 0

		// Check 1: vsearch executable
		fmt.Printf("%s vsearch executable\n", cyan("→"))
		binary := cfg.VsearchPath
		if binary == "" {
			resolved, err := exec.LookPath(vsearch.DefaultBinary)
			if err != nil {
				failures++
				fmt.Printf("  %s vsearch not found on PATH\n", red("✗"))
				if verbose {
					fmt.Printf("    Error: %v\n", err)
				}
			} else {
				binary = resolved
				fmt.Printf("  %s Found vsearch: %s\n", green("✓"), resolved)
			}
		} else if _, err := os.Stat(binary); err != nil {
			failures++
			binary = ""
			fmt.Printf("  %s Configured vsearch path is not accessible: %s\n", red("✗"), cfg.VsearchPath)
			if verbose {
				fmt.Printf("    Error: %v\n", err)
			}
		} else {
			fmt.Printf("  %s Using configured vsearch: %s\n", green("✓"), binary)
		}

		// Check 2: vsearch version
		fmt.Printf("%s vsearch version\n", cyan("→"))
		if binary == "" {
			fmt.Printf("  %s Skipped (no executable)\n", red("✗"))
			failures++
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			version, err := vsearch.CheckVersion(ctx, &vsearch.ExecRunner{Binary: binary})
			if err != nil {
				failures++
				fmt.Printf("  %s %v\n", red("✗"), err)
			} else {
				fmt.Printf("  %s vsearch %s (minimum %s)\n", green("✓"), version, vsearch.MinVersion)
			}
		}

		// Check 3: run log database
		fmt.Printf("%s Run log\n", cyan("→"))
		if cfg.DBPath == "" {
			fmt.Printf("  %s Run logging disabled (no db path configured)\n", green("✓"))
		} else if store, err := provenance.Open(cfg.DBPath); err != nil {
			failures++
			fmt.Printf("  %s Cannot open run log at %s\n", red("✗"), cfg.DBPath)
			if verbose {
				fmt.Printf("    Error: %v\n", err)
			}
		} else {
			store.Close()
			fmt.Printf("  %s Run log accessible: %s\n", green("✓"), cfg.DBPath)
		}

		fmt.Println()
		if failures > 0 {
			fmt.Printf("%s %d check(s) failed\n", red("✗"), failures)
			os.Exit(1)
		}
		fmt.Printf("%s All checks passed\n", green("✓"))
	},
}

func init() {
	doctorCmd.Flags().Bool("verbose", false, "show detailed error output")
	rootCmd.AddCommand(doctorCmd)
}
