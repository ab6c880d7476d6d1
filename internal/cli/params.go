package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// paramsResult is the JSON payload for the params command.
type paramsResult struct {
	MinimumLockTokens       uint64 `json:"minimum_lock_tokens"`
	ProposalThresholdTokens uint64 `json:"proposal_threshold_tokens"`
	MinLockAge              string `json:"min_lock_age"`
	VotingPeriod            string `json:"voting_period"`
	TimelockDelay           string `json:"timelock_delay"`
	GracePeriod             string `json:"grace_period"`
	QuorumFraction          string `json:"quorum_fraction"`
	QuorumVotes             string `json:"quorum_votes"`
	Governor                string `json:"governor"`
	TotalSupply             string `json:"total_supply"`
	TotalLocked             string `json:"total_locked"`
	Proposals               uint64 `json:"proposals"`
}

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Show the governance parameter set and aggregates",
		Long: `Show the active parameter set plus live aggregates: total supply,
total locked, current quorum requirement, and proposal count.

Examples:
  equorum-gov params
  equorum-gov params --config ./params.cue`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParams(rootOpts, cmd)
		},
	}
	return cmd
}

func runParams(opts *RootOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts, cmd)

	rt, err := OpenRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	p := rt.Params
	result := paramsResult{
		MinimumLockTokens:       p.MinimumLockTokens,
		ProposalThresholdTokens: p.ProposalThresholdTokens,
		MinLockAge:              p.MinLockAge.String(),
		VotingPeriod:            p.VotingPeriod.String(),
		TimelockDelay:           p.TimelockDelay.String(),
		GracePeriod:             p.GracePeriod.String(),
		QuorumFraction:          fmt.Sprintf("%d/%d", p.QuorumNumerator, p.QuorumDenominator),
		QuorumVotes:             rt.Engine.QuorumVotes().Dec(),
		Governor:                p.Governor.Hex(),
		TotalSupply:             rt.Ledger.TotalSupply().Dec(),
		TotalLocked:             rt.Engine.TotalLocked().Dec(),
		Proposals:               rt.Engine.ProposalCount(),
	}
	if opts.Format == "json" {
		return f.Success(result)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "governance parameters\n")
	fmt.Fprintf(&b, "  minimum lock:       %d tokens\n", p.MinimumLockTokens)
	fmt.Fprintf(&b, "  proposal threshold: %d tokens\n", p.ProposalThresholdTokens)
	fmt.Fprintf(&b, "  min lock age:       %s\n", p.MinLockAge)
	fmt.Fprintf(&b, "  voting period:      %s\n", p.VotingPeriod)
	fmt.Fprintf(&b, "  timelock delay:     %s\n", p.TimelockDelay)
	fmt.Fprintf(&b, "  grace period:       %s\n", p.GracePeriod)
	fmt.Fprintf(&b, "  quorum fraction:    %s\n", result.QuorumFraction)
	fmt.Fprintf(&b, "  governor:           %s\n", result.Governor)
	fmt.Fprintf(&b, "aggregates\n")
	fmt.Fprintf(&b, "  total supply: %s tokens\n", FormatTokens(rt.Ledger.TotalSupply()))
	fmt.Fprintf(&b, "  total locked: %s tokens\n", FormatTokens(rt.Engine.TotalLocked()))
	fmt.Fprintf(&b, "  quorum votes: %s\n", FormatWeight(rt.Engine.QuorumVotes()))
	fmt.Fprintf(&b, "  proposals:    %d", rt.Engine.ProposalCount())
	return f.Success(b.String())
}
