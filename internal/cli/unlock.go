package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EquorumProtocol/equorum-gov/internal/store"
)

// UnlockOptions holds flags for the unlock command.
type UnlockOptions struct {
	*RootOptions
	From string
}

// NewUnlockCommand creates the unlock command.
func NewUnlockCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UnlockOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Release the caller's entire lock",
		Long: `Return all locked tokens to the caller. Refused while any proposal the
caller voted on is still inside its voting window.

Examples:
  equorum-gov unlock --from 0xabc...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnlock(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "unlocking account (required)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func runUnlock(opts *UnlockOptions, cmd *cobra.Command) error {
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

	amount, err := rt.Engine.Unlock(from)
	if err != nil {
		return EngineError(f, err)
	}
	if err := rt.Record(ctx, store.KindUnlock, from, struct{}{}); err != nil {
		return err
	}

	return f.Success(fmt.Sprintf("returned %s tokens to %s", FormatTokens(amount), from.Hex()))
}
