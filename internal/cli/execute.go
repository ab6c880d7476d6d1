package cli

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/EquorumProtocol/equorum-gov/internal/store"
)

// ExecuteOptions holds flags for the execute command.
type ExecuteOptions struct {
	*RootOptions
	From     string
	Proposal uint64
	Value    string
}

// NewExecuteCommand creates the execute command.
func NewExecuteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecuteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute a queued proposal",
		Long: `Execute a queued proposal whose eta has been reached. The supplied
--value (base units) must equal the sum of the proposal's action values.

Examples:
  equorum-gov execute --from 0xabc... --proposal 1
  equorum-gov execute --from 0xabc... --proposal 2 --value 1000000000000000000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "calling account (required)")
	cmd.Flags().Uint64Var(&opts.Proposal, "proposal", 0, "proposal id (required)")
	cmd.Flags().StringVar(&opts.Value, "value", "0", "attached value in base units")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("proposal")

	return cmd
}

func runExecute(opts *ExecuteOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	from, err := ParseAddress(opts.From)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --from", err)
	}
	value, err := uint256.FromDecimal(opts.Value)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --value", err)
	}

	rt, err := OpenRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	outputs, err := rt.Engine.Execute(ctx, from, opts.Proposal, value)
	if err != nil {
		return EngineError(f, err)
	}
	if err := rt.Record(ctx, store.KindExecute, from, store.ExecutePayload{
		ProposalID: opts.Proposal,
		Value:      value.Dec(),
	}); err != nil {
		return err
	}

	return f.Success(fmt.Sprintf("proposal %d executed, %d action(s) ran", opts.Proposal, len(outputs)))
}
