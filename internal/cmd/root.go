// Package cmd wires cronloopd's cobra subcommands: a package-level
// rootCmd, an Execute entry point, and SetOutput for test isolation.
// Subcommands with flags wrap cobra.Command in a small struct holding
// their flag targets.
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hzerrad/cronloop/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath string
	envPath    string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "cronloopd",
	Short: "cronloopd - a declarative, crash-safe polling cron scheduler",
	Long: `cronloopd runs a fixed set of named recurring tasks read from a
registrations file, persisting their runtime state so a restart never
double-fires or silently drops a due task.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envPath)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", DefaultConfigPath, "path to the registrations YAML file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", DefaultEnvPath, "path to an optional .env file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON where supported")
}

// SetOutput sets the output and error writers for the root command.
func SetOutput(out, err io.Writer) {
	rootCmd.SetOut(out)
	rootCmd.SetErr(err)
}
