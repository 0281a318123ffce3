package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/otukit/vclust/internal/registry"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the registered methods and their signatures",
	Long: `Display every registered method with its typed inputs, parameters,
and outputs. This is the documentation the tool generates from its method
registry; each method corresponds to a command of the same name.`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		bold := color.New(color.Bold).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		for i, m := range registry.Methods() {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s — %s\n", bold(m.Name), m.Short)
			if verbose {
				fmt.Printf("  %s\n", m.Description)
			}

			fmt.Printf("  %s\n", cyan("Inputs:"))
			printPorts(m.Inputs, gray)
			if len(m.Parameters) > 0 {
				fmt.Printf("  %s\n", cyan("Parameters:"))
				printPorts(m.Parameters, gray)
			}
			fmt.Printf("  %s\n", cyan("Outputs:"))
			printPorts(m.Outputs, gray)
		}
	},
}

func printPorts(ports []registry.Port, gray func(...interface{}) string) {
	for _, p := range ports {
		typ := p.Type
		if p.Constraint != "" {
			typ = fmt.Sprintf("%s %s", p.Type, p.Constraint)
		}
		fmt.Printf("    %-22s %s\n", p.Name, gray(typ))
		fmt.Printf("      %s\n", p.Description)
	}
}

func init() {
	methodsCmd.Flags().Bool("verbose", false, "include full method descriptions")
	rootCmd.AddCommand(methodsCmd)
}
