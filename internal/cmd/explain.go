package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hzerrad/cronloop/internal/cronexpr"
	"github.com/hzerrad/cronloop/internal/human"
)

// explainCmd describes, in English, what a five-field cron expression
// means. It accepts the same alias-free grammar the scheduler accepts,
// so an explanation here matches what Initialize would do.
var explainCmd = &cobra.Command{
	Use:   "explain <cron-expression>",
	Short: "Explain a cron expression in plain English",
	Long: `Parses a five-field cron expression and describes when it fires.

Example:
  cronloopd explain "0 9 * * 1-5"`,
	Args: cobra.ExactArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	expr, err := cronexpr.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", args[0], err)
	}

	description := human.NewHumanizer().Humanize(expr)

	if jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]string{
			"expression":  expr.String(),
			"description": description,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", expr.String(), description)
	return nil
}
