package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hzerrad/cronloop"
	"github.com/hzerrad/cronloop/internal/config"
	"github.com/hzerrad/cronloop/internal/logging"
	"github.com/hzerrad/cronloop/internal/registry"
	"github.com/hzerrad/cronloop/internal/state"
)

// RunCommand wraps cobra.Command for the `run` subcommand: the actual
// long-running daemon. Every other subcommand (plan, status, forecast,
// explain, next, timeline, import) only reads a registrations file
// and/or the state document; this is the only one that starts the
// poll loop.
type RunCommand struct {
	*cobra.Command
	statePath string
	interval  time.Duration
}

func init() {
	rootCmd.AddCommand(newRunCommand().Command)
}

func newRunCommand() *RunCommand {
	rc := &RunCommand{}
	rc.Command = &cobra.Command{
		Use:   "run",
		Short: "Start the poll loop and run every registered task until stopped",
		Long: `Loads the registrations file, resolves each entry's "handler" key
against the daemon's in-process handler registry, and starts
cronloop.Scheduler against a SQLite-backed state store. Runs until
interrupted (SIGINT/SIGTERM), at which point it awaits every in-flight
callback before exiting.`,
		RunE: rc.run,
	}
	rc.Command.Flags().StringVar(&rc.statePath, "state", DefaultStatePath, "path to the SQLite state file")
	rc.Command.Flags().DurationVar(&rc.interval, "interval", 0, "override the registrations file's pollingInterval")
	return rc
}

func (rc *RunCommand) run(_ *cobra.Command, _ []string) error {
	f, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("loading registrations: %w", err)
	}

	logger := logging.NewDefault()
	handlers := builtinHandlers(logger)
	regs, err := registry.RegistrationsFromRawDocument(f.Registrations, handlers)
	if err != nil {
		return fmt.Errorf("resolving registrations: %w", err)
	}

	statePath := rc.statePath
	if statePath == DefaultStatePath && f.StatePath != "" {
		statePath = f.StatePath
	}
	store, err := state.OpenSQLiteStore(statePath, systemStateClock{})
	if err != nil {
		return fmt.Errorf("opening state store %s: %w", statePath, err)
	}
	defer store.Close()

	interval := rc.interval
	if interval == 0 {
		interval = f.PollingInterval
	}
	cfg := cronloop.DefaultConfig()
	cfg.Logger = logger
	if interval > 0 {
		cfg.PollingInterval = interval
	}

	sched := cronloop.New(store, cfg)
	if err := sched.Initialize(regs); err != nil {
		return fmt.Errorf("initializing scheduler: %w", err)
	}

	fmt.Fprintf(rc.OutOrStdout(), "cronloopd running %d task(s) against %s, polling every %s\n",
		len(regs), statePath, cfg.PollingInterval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Fprintln(rc.OutOrStdout(), "shutting down, awaiting in-flight tasks...")
	sched.Stop()
	return nil
}
