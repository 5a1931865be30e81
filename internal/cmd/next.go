package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hzerrad/cronloop/internal/cronexpr"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// NextCommand wraps cobra.Command with next-specific flags.
type NextCommand struct {
	*cobra.Command
	count int
}

func init() {
	rootCmd.AddCommand(newNextCommand().Command)
}

func newNextCommand() *NextCommand {
	nc := &NextCommand{}
	nc.Command = &cobra.Command{
		Use:   "next <cron-expression>",
		Short: "Show the next N fire times for a cron expression",
		Long: `Walks cronexpr.NextFire forward from now and prints the next N
occurrences of the given five-field cron expression.`,
		Args: cobra.ExactArgs(1),
		RunE: nc.run,
	}
	nc.Command.Flags().IntVarP(&nc.count, "count", "c", 5, "number of upcoming fires to show")
	return nc
}

func (nc *NextCommand) run(_ *cobra.Command, args []string) error {
	expr, err := cronexpr.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", args[0], err)
	}

	from := timeutil.Now()
	times := make([]timeutil.Instant, 0, nc.count)
	for i := 0; i < nc.count; i++ {
		next, err := cronexpr.NextFire(expr, from)
		if err != nil {
			break
		}
		times = append(times, next)
		from = next
	}

	if jsonOutput {
		type run struct {
			Expression string `json:"expression"`
			Time       string `json:"time"`
		}
		out := make([]run, len(times))
		for i, t := range times {
			out[i] = run{Expression: expr.String(), Time: t.Time().Format(time.RFC3339)}
		}
		encoder := json.NewEncoder(nc.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Fprintf(nc.OutOrStdout(), "Next %d runs of %q:\n", len(times), expr.String())
	for _, t := range times {
		fmt.Fprintf(nc.OutOrStdout(), "  %s\n", t.Time().Format(time.RFC3339))
	}
	return nil
}
