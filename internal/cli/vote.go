package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EquorumProtocol/equorum-gov/internal/store"
)

// VoteOptions holds flags for the vote command.
type VoteOptions struct {
	*RootOptions
	From     string
	Proposal uint64
	Against  bool
}

// NewVoteCommand creates the vote command.
func NewVoteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VoteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Cast a vote on an active proposal",
		Long: `Cast a vote weighted by the integer square root of the caller's
whole-token lock. Votes are for the proposal unless --against is given.
Voting holds the caller's lock until the proposal's voting window closes.

Examples:
  equorum-gov vote --from 0xabc... --proposal 1
  equorum-gov vote --from 0xabc... --proposal 1 --against`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVote(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "voting account (required)")
	cmd.Flags().Uint64Var(&opts.Proposal, "proposal", 0, "proposal id (required)")
	cmd.Flags().BoolVar(&opts.Against, "against", false, "vote against instead of for")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("proposal")

	return cmd
}

func runVote(opts *VoteOptions, cmd *cobra.Command) error {
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

	support := !opts.Against
	if err := rt.Engine.CastVote(from, opts.Proposal, support); err != nil {
		return EngineError(f, err)
	}
	if err := rt.Record(ctx, store.KindVote, from, store.VotePayload{
		ProposalID: opts.Proposal,
		Support:    support,
	}); err != nil {
		return err
	}

	receipt, _, err := rt.Engine.VoteReceipt(opts.Proposal, from)
	if err != nil {
		return err
	}
	direction := "for"
	if opts.Against {
		direction = "against"
	}
	return f.Success(fmt.Sprintf("vote %s proposal %d recorded with weight %s",
		direction, opts.Proposal, FormatWeight(receipt.Weight)))
}
