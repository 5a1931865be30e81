package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hzerrad/cronloop/internal/render"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// TimelineCommand wraps cobra.Command with timeline-specific flags.
type TimelineCommand struct {
	*cobra.Command
	hourView bool
	width    int
}

func init() {
	rootCmd.AddCommand(newTimelineCommand().Command)
}

func newTimelineCommand() *TimelineCommand {
	tc := &TimelineCommand{}
	tc.Command = &cobra.Command{
		Use:   "timeline",
		Short: "Render an ASCII occurrence timeline for the configured registrations",
		Long: `Reads the registrations file and draws a day (default) or hour view of
when each task is scheduled to fire, starting now.`,
		RunE: tc.run,
	}
	tc.Command.Flags().BoolVar(&tc.hourView, "hour", false, "show a 60-minute view instead of a 24-hour view")
	tc.Command.Flags().IntVar(&tc.width, "width", DefaultTimelineWidth, "width reported in --json output (the text view draws one cell per slot)")
	return tc
}

func (tc *TimelineCommand) run(_ *cobra.Command, _ []string) error {
	regs, _, err := loadParsedRegistrations(configPath)
	if err != nil {
		return fmt.Errorf("loading registrations: %w", err)
	}

	view := render.DayView
	if tc.hourView {
		view = render.HourView
	}

	tl := render.BuildForRegistrations(view, timeutil.Now().Time(), tc.width, regs)

	if jsonOutput {
		encoder := json.NewEncoder(tc.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(tl.RenderJSON())
	}

	fmt.Fprint(tc.OutOrStdout(), tl.Render())
	return nil
}
