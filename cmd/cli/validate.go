package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pfengine/internal/engine/diagnostics"
	"pfengine/internal/engine/workbook"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workbook.json>",
	Short: "Run a workbook through the engine and report diagnostics only",
	Long: `validate runs the same pass as evaluate but prints only the
diagnostics, not the context - useful for a CI check on a workbook file
without consuming the full numeric output.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	wb, err := loadWorkbook(args[0])
	if err != nil {
		return err
	}

	out := workbook.Evaluate(wb)

	hasErrors := false
	for _, d := range out.Diagnostics {
		stream := cmd.OutOrStdout()
		if d.Severity == diagnostics.SeverityError {
			stream = cmd.ErrOrStderr()
			hasErrors = true
		}
		fmt.Fprintf(stream, "[%s] %s %s: %s\n", d.Severity, d.Code, d.Ref, d.Message)
	}

	if len(out.Diagnostics) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no diagnostics")
	}

	if hasErrors || out.Context == nil {
		os.Exit(1)
	}
	return nil
}
