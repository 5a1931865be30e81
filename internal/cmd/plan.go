package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hzerrad/cronloop/internal/plan"
	"github.com/hzerrad/cronloop/internal/state"
)

// PlanCommand wraps cobra.Command for the `plan` subcommand.
type PlanCommand struct {
	*cobra.Command
	statePath string
}

func init() {
	rootCmd.AddCommand(newPlanCommand().Command)
}

func newPlanCommand() *PlanCommand {
	pc := &PlanCommand{}
	pc.Command = &cobra.Command{
		Use:   "plan",
		Short: "Preview what the next run of cronloopd would change",
		Long: `Compares the registrations file against the persisted state document
and reports which tasks would be added, removed, or modified, and
whether a modified task's runtime bookkeeping would carry forward — without actually reconciling anything.`,
		RunE: pc.run,
	}
	pc.Command.Flags().StringVar(&pc.statePath, "state", DefaultStatePath, "path to the SQLite state file")
	return pc
}

func (pc *PlanCommand) run(_ *cobra.Command, _ []string) error {
	regs, _, err := loadParsedRegistrations(configPath)
	if err != nil {
		return fmt.Errorf("loading registrations: %w", err)
	}

	current, err := readCurrentState(pc.statePath)
	if err != nil {
		return fmt.Errorf("reading state: %w", err)
	}

	p := plan.Compute(current, regs)
	return plan.Render(pc.OutOrStdout(), p)
}

// readCurrentState opens the state store and returns the current
// document. Opening creates the SQLite file and its scheduler_state
// table when they are missing; the transaction never calls SetState, so
// no state document is written.
func readCurrentState(path string) (state.SchedulerState, error) {
	store, err := state.OpenSQLiteStore(path, systemStateClock{})
	if err != nil {
		return state.SchedulerState{}, err
	}
	defer store.Close()

	var current state.SchedulerState
	err = store.Transaction(func(h state.Handle) error {
		current = h.GetCurrentState()
		return nil
	})
	return current, err
}
