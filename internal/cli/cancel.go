package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EquorumProtocol/equorum-gov/internal/store"
)

// CancelOptions holds flags for the cancel command.
type CancelOptions struct {
	*RootOptions
	From     string
	Proposal uint64
}

// NewCancelCommand creates the cancel command.
func NewCancelCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CancelOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a proposal",
		Long: `Cancel a proposal at any point before execution. Only the original
proposer may cancel. Queued timelock entries are dropped.

Examples:
  equorum-gov cancel --from 0xabc... --proposal 1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCancel(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "proposer account (required)")
	cmd.Flags().Uint64Var(&opts.Proposal, "proposal", 0, "proposal id (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("proposal")

	return cmd
}

func runCancel(opts *CancelOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	from, err := ParseAddress(opts.From)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --from", err)
	}

	rt, err := OpenRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Engine.Cancel(from, opts.Proposal); err != nil {
		return EngineError(f, err)
	}
	if err := rt.Record(ctx, store.KindCancel, from, store.ProposalPayload{ProposalID: opts.Proposal}); err != nil {
		return err
	}

	return f.Success(fmt.Sprintf("proposal %d canceled", opts.Proposal))
}
