package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hzerrad/cronloop/internal/migrate"
)

// ImportCommand wraps cobra.Command for the `import` subcommand.
type ImportCommand struct {
	*cobra.Command
	output string
	user   bool
}

func init() {
	rootCmd.AddCommand(newImportCommand().Command)
}

func newImportCommand() *ImportCommand {
	ic := &ImportCommand{}
	ic.Command = &cobra.Command{
		Use:   "import [crontab-file]",
		Short: "Scaffold a registrations file from an existing crontab",
		Long: `Reads a crontab file (or, with --user, the invoking user's own
crontab via "crontab -l"), translates every line it understands onto
this scheduler's five-field grammar, and writes a registrations YAML
scaffold. Handlers are left as TODO placeholders since a shell command
is not a Go callback; lines that could not be translated (e.g. @reboot,
which has no polling-scheduler equivalent) are reported and skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: ic.run,
	}
	ic.Command.Flags().StringVarP(&ic.output, "output", "o", "", "write the scaffold here instead of stdout")
	ic.Command.Flags().BoolVar(&ic.user, "user", false, "read the invoking user's crontab instead of a file")
	return ic
}

func (ic *ImportCommand) run(_ *cobra.Command, args []string) error {
	var jobs []*migrate.Job
	var err error

	switch {
	case ic.user:
		jobs, err = migrate.ReadUser()
	case len(args) == 1:
		jobs, err = migrate.ReadFile(args[0])
	default:
		return fmt.Errorf("either pass a crontab file path or --user")
	}
	if err != nil {
		return fmt.Errorf("reading crontab: %w", err)
	}

	doc, skipped, err := migrate.Scaffold(jobs)
	if err != nil {
		return fmt.Errorf("scaffolding registrations: %w", err)
	}

	for _, job := range skipped {
		fmt.Fprintf(ic.ErrOrStderr(), "skipped line %d (%s): %s\n", job.LineNumber, job.OriginalExpression, job.Error)
	}

	if ic.output == "" {
		_, err = ic.OutOrStdout().Write(doc)
		return err
	}
	return os.WriteFile(ic.output, doc, 0o644)
}
