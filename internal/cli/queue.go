package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EquorumProtocol/equorum-gov/internal/store"
)

// QueueOptions holds flags for the queue command.
type QueueOptions struct {
	*RootOptions
	From     string
	Proposal uint64
}

// NewQueueCommand creates the queue command.
func NewQueueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Queue a succeeded proposal into the timelock",
		Long: `Move a succeeded proposal into the timelock. Every action is queued
with the same eta, now plus the timelock delay. Anyone may queue.

Examples:
  equorum-gov queue --from 0xabc... --proposal 1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueue(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "calling account (required)")
	cmd.Flags().Uint64Var(&opts.Proposal, "proposal", 0, "proposal id (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("proposal")

	return cmd
}

func runQueue(opts *QueueOptions, cmd *cobra.Command) error {
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

	eta, err := rt.Engine.Queue(from, opts.Proposal)
	if err != nil {
		return EngineError(f, err)
	}
	if err := rt.Record(ctx, store.KindQueue, from, store.ProposalPayload{ProposalID: opts.Proposal}); err != nil {
		return err
	}

	return f.Success(fmt.Sprintf("proposal %d queued, executable from %s",
		opts.Proposal, eta.UTC().Format("2006-01-02 15:04:05 MST")))
}
