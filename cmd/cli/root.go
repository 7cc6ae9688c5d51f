package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pfengine",
	Short: "Project finance evaluation engine",
	Long: `pfengine evaluates a project finance workbook: a timeline, groups of
time-series inputs, a dependency-ordered formula layer, and a set of §4.8
contract modules (construction funding, the DSCR-sculpted debt sizer,
distributions, DSRF, GST, MRA, amortisation) composed into a single monthly
context.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
}
