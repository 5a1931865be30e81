package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hzerrad/cronloop/internal/health"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// StatusCommand wraps cobra.Command for the `status` subcommand.
type StatusCommand struct {
	*cobra.Command
	statePath string
	window    time.Duration
}

func init() {
	rootCmd.AddCommand(newStatusCommand().Command)
}

func newStatusCommand() *StatusCommand {
	sc := &StatusCommand{}
	sc.Command = &cobra.Command{
		Use:   "status",
		Short: "Report each task's last outcome and upcoming fire frequency",
		Long: `Joins the registrations file against the persisted state document and
reports, per task, whether it last succeeded, is sitting in a retry
backoff, or has never run, alongside a 24-hour fire-time histogram.`,
		RunE: sc.run,
	}
	sc.Command.Flags().StringVar(&sc.statePath, "state", DefaultStatePath, "path to the SQLite state file")
	sc.Command.Flags().DurationVar(&sc.window, "window", DefaultForecastWindow, "window over which to project upcoming fires")
	return sc
}

func (sc *StatusCommand) run(_ *cobra.Command, _ []string) error {
	regs, _, err := loadParsedRegistrations(configPath)
	if err != nil {
		return fmt.Errorf("loading registrations: %w", err)
	}

	current, err := readCurrentState(sc.statePath)
	if err != nil {
		return fmt.Errorf("reading state: %w", err)
	}

	dashboard := health.Compute(timeutil.Now(), current, regs, sc.window)

	if jsonOutput {
		encoder := json.NewEncoder(sc.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(dashboard)
	}

	return health.Render(sc.OutOrStdout(), dashboard)
}
