// Package cli implements the equorum-gov development CLI.
//
// Every invocation opens the operation journal, replays it through a fresh
// engine with the clock pinned to each record's timestamp, and then runs the
// requested command against the reconstructed state. Mutating commands
// append their operation to the journal after it succeeds, so the next
// invocation replays it too. The journal is the only persistent state.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
	Config   string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the equorum-gov CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "equorum-gov",
		Short: "Equorum governance engine",
		Long: `Token-weighted collective decision engine: lock tokens, submit
proposals, vote quadratically, and execute passed proposals through a
timelocked executor. State is reconstructed on every invocation by
replaying the local operation journal.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "equorum.db", "path to the operation journal")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to a CUE parameter file (defaults built in)")

	cmd.AddCommand(NewFundCommand(opts))
	cmd.AddCommand(NewLockCommand(opts))
	cmd.AddCommand(NewUnlockCommand(opts))
	cmd.AddCommand(NewProposeCommand(opts))
	cmd.AddCommand(NewVoteCommand(opts))
	cmd.AddCommand(NewQueueCommand(opts))
	cmd.AddCommand(NewExecuteCommand(opts))
	cmd.AddCommand(NewCancelCommand(opts))
	cmd.AddCommand(NewMarkExpiredCommand(opts))
	cmd.AddCommand(NewStateCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewPowerCommand(opts))
	cmd.AddCommand(NewParamsCommand(opts))

	return cmd
}

// newFormatter builds the output formatter for one command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
