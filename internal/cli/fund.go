package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EquorumProtocol/equorum-gov/internal/store"
)

// FundOptions holds flags for the fund command.
type FundOptions struct {
	*RootOptions
	To     string
	Amount string
}

// NewFundCommand creates the fund command. Funding mints development tokens;
// it stands in for the real token distribution this engine governs.
func NewFundCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FundOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Mint development tokens to an account",
		Long: `Mint whole tokens to an account on the in-memory development ledger.

Examples:
  equorum-gov fund --to 0xabc... --amount 400000`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFund(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "recipient address (required)")
	cmd.Flags().StringVar(&opts.Amount, "amount", "", "whole tokens to mint (required)")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runFund(opts *FundOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	to, err := ParseAddress(opts.To)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --to", err)
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

	if err := rt.Ledger.Mint(to, amount); err != nil {
		return EngineError(f, err)
	}
	if err := rt.Record(ctx, store.KindFund, to, store.FundPayload{Amount: amount.Dec()}); err != nil {
		return err
	}

	return f.Success(fmt.Sprintf("minted %s tokens to %s (balance %s)",
		FormatTokens(amount), to.Hex(), FormatTokens(rt.Ledger.BalanceOf(to))))
}
