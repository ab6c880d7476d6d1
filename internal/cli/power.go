package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// PowerOptions holds flags for the power command.
type PowerOptions struct {
	*RootOptions
	Account string
}

// powerResult is the JSON payload for the power command.
type powerResult struct {
	Account     string `json:"account"`
	Weight      string `json:"weight"`
	Eligible    bool   `json:"eligible"`
	Locked      string `json:"locked"`
	Balance     string `json:"balance"`
	LockTime    int64  `json:"lock_time,omitempty"`
	UnlockAfter int64  `json:"unlock_after,omitempty"`
}

// NewPowerCommand creates the power command.
func NewPowerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PowerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "power",
		Short: "Show an account's voting power and lock",
		Long: `Show an account's quadratic voting weight, eligibility, lock record,
and token balance.

Examples:
  equorum-gov power --account 0xabc...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPower(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Account, "account", "", "account address (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runPower(opts *PowerOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	account, err := ParseAddress(opts.Account)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --account", err)
	}

	rt, err := OpenRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	weight, eligible := rt.Engine.GetVotingPower(account)
	result := powerResult{
		Account:  account.Hex(),
		Weight:   weight.Dec(),
		Eligible: eligible,
		Locked:   "0",
		Balance:  rt.Ledger.BalanceOf(account).Dec(),
	}
	if rec, ok := rt.Engine.GetLockInfo(account); ok {
		result.Locked = rec.Amount.Dec()
		result.LockTime = rec.LockTime.Unix()
	}
	if after := rt.Engine.GetUnlockAfter(account); !after.IsZero() {
		result.UnlockAfter = after.Unix()
	}
	if opts.Format == "json" {
		return f.Success(result)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "account %s\n", result.Account)
	fmt.Fprintf(&b, "  weight:   %s\n", FormatWeight(weight))
	fmt.Fprintf(&b, "  eligible: %t\n", eligible)
	if rec, ok := rt.Engine.GetLockInfo(account); ok {
		fmt.Fprintf(&b, "  locked:   %s tokens since %s\n",
			FormatTokens(rec.Amount), rec.LockTime.UTC().Format("2006-01-02 15:04:05 MST"))
	} else {
		fmt.Fprintf(&b, "  locked:   none\n")
	}
	fmt.Fprintf(&b, "  balance:  %s tokens", FormatTokens(rt.Ledger.BalanceOf(account)))
	return f.Success(b.String())
}
