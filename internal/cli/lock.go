package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EquorumProtocol/equorum-gov/internal/store"
)

// LockOptions holds flags for the lock command.
type LockOptions struct {
	*RootOptions
	From   string
	Amount string
}

// NewLockCommand creates the lock command.
func NewLockCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LockOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Lock tokens into governance custody",
		Long: `Deposit whole tokens into governance custody. The first lock stamps the
lock time that the minimum lock age is measured from; top-ups do not
reset it.

Examples:
  equorum-gov lock --from 0xabc... --amount 10000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLock(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "locking account (required)")
	cmd.Flags().StringVar(&opts.Amount, "amount", "", "whole tokens to lock (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runLock(opts *LockOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	from, err := ParseAddress(opts.From)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --from", err)
	}
	amount, err := ParseWholeTokens(opts.Amount)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --amount", err)
	}

	rt, err := OpenRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Engine.Lock(from, amount); err != nil {
		return EngineError(f, err)
	}
	if err := rt.Record(ctx, store.KindLock, from, store.LockPayload{Amount: amount.Dec()}); err != nil {
		return err
	}

	return f.Success(fmt.Sprintf("locked %s tokens from %s (total locked %s)",
		FormatTokens(amount), from.Hex(), FormatTokens(rt.Engine.TotalLocked())))
}
