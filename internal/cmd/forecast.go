package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hzerrad/cronloop/internal/forecast"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// ForecastCommand wraps cobra.Command with forecast-specific flags.
type ForecastCommand struct {
	*cobra.Command
	window time.Duration
}

func init() {
	rootCmd.AddCommand(newForecastCommand().Command)
}

func newForecastCommand() *ForecastCommand {
	fc := &ForecastCommand{}
	fc.Command = &cobra.Command{
		Use:   "forecast",
		Short: "Project upcoming fires and overlaps for the configured registrations",
		Long: `Reads the registrations file and projects, over a window starting now,
how many times each task will fire and which fires land on the same
minute as another task's.`,
		RunE: fc.run,
	}
	fc.Command.Flags().DurationVar(&fc.window, "window", DefaultForecastWindow, "how far ahead to project")
	return fc
}

func (fc *ForecastCommand) run(_ *cobra.Command, _ []string) error {
	regs, _, err := loadParsedRegistrations(configPath)
	if err != nil {
		return fmt.Errorf("loading registrations: %w", err)
	}

	report := forecast.Analyze(regs, timeutil.Now(), fc.window)

	if jsonOutput {
		encoder := json.NewEncoder(fc.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	w := fc.OutOrStdout()
	fmt.Fprintf(w, "Forecast over %s\n", fc.window)
	fmt.Fprintf(w, "Runs per day: %s\n", reportRunsPerDay(report))
	fmt.Fprintf(w, "Max concurrent fires: %d\n", report.MaxConcurrent)
	if len(report.Overlaps) == 0 {
		fmt.Fprintln(w, "No overlapping fires detected.")
		return nil
	}
	fmt.Fprintln(w, "Overlaps:")
	for _, o := range report.Overlaps {
		fmt.Fprintf(w, "  %s: %v\n", o.At, o.Names)
	}
	return nil
}

func reportRunsPerDay(r forecast.Report) string {
	total := 0
	for _, n := range r.RunsPerDay {
		total += n
	}
	return fmt.Sprintf("%d total (%v)", total, r.RunsPerDay)
}
