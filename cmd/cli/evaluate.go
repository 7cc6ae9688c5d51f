package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pfengine/internal/engine/diagnostics"
	"pfengine/internal/engine/workbook"
)

var evaluateOutPath string

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <workbook.json>",
	Short: "Evaluate a workbook file and print its context and diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateOutPath, "out", "o", "", "write the evaluated context as JSON to this path instead of stdout")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	wb, err := loadWorkbook(args[0])
	if err != nil {
		return err
	}

	out := workbook.Evaluate(wb)

	for _, d := range out.Diagnostics {
		stream := cmd.OutOrStdout()
		if d.Severity == diagnostics.SeverityError {
			stream = cmd.ErrOrStderr()
		}
		fmt.Fprintf(stream, "[%s] %s %s: %s\n", d.Severity, d.Code, d.Ref, d.Message)
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if evaluateOutPath != "" {
		if err := os.WriteFile(evaluateOutPath, payload, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	}

	for _, d := range out.Diagnostics {
		if d.Severity == diagnostics.SeverityError {
			os.Exit(1)
		}
	}
	return nil
}

func loadWorkbook(path string) (workbook.Workbook, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return workbook.Workbook{}, fmt.Errorf("read workbook: %w", err)
	}
	var wb workbook.Workbook
	if err := json.Unmarshal(raw, &wb); err != nil {
		return workbook.Workbook{}, fmt.Errorf("parse workbook: %w", err)
	}
	return wb, nil
}
