package cli

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/EquorumProtocol/equorum-gov/internal/store"
)

// MarkExpiredOptions holds flags for the mark-expired command.
type MarkExpiredOptions struct {
	*RootOptions
	Proposal uint64
}

// NewMarkExpiredCommand creates the mark-expired command.
func NewMarkExpiredCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MarkExpiredOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mark-expired",
		Short: "Record that a queued proposal's grace window has passed",
		Long: `Record the expiry of a queued proposal whose grace window has passed
and drop its stale timelock entries. Bookkeeping only: the resolved
state is already Expired before and after.

Examples:
  equorum-gov mark-expired --proposal 1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarkExpired(opts, cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Proposal, "proposal", 0, "proposal id (required)")
	_ = cmd.MarkFlagRequired("proposal")

	return cmd
}

func runMarkExpired(opts *MarkExpiredOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	rt, err := OpenRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Engine.MarkExpired(opts.Proposal); err != nil {
		return EngineError(f, err)
	}
	if err := rt.Record(ctx, store.KindMarkExpired, common.Address{}, store.ProposalPayload{
		ProposalID: opts.Proposal,
	}); err != nil {
		return err
	}

	return f.Success(fmt.Sprintf("proposal %d marked expired", opts.Proposal))
}
