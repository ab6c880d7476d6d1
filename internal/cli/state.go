package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// StateOptions holds flags for the state command.
type StateOptions struct {
	*RootOptions
	Proposal uint64
}

// stateResult is the JSON payload for the state command.
type stateResult struct {
	Proposal     uint64 `json:"proposal"`
	State        string `json:"state"`
	ForVotes     string `json:"for_votes"`
	AgainstVotes string `json:"against_votes"`
	QuorumVotes  string `json:"quorum_votes"`
	Executable   bool   `json:"executable"`
}

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Resolve a proposal's lifecycle state",
		Long: `Resolve a proposal's current lifecycle state together with its tally
and the quorum requirement.

Examples:
  equorum-gov state --proposal 1
  equorum-gov state --proposal 1 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(opts, cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Proposal, "proposal", 0, "proposal id (required)")
	_ = cmd.MarkFlagRequired("proposal")

	return cmd
}

func runState(opts *StateOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	rt, err := OpenRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	state, err := rt.Engine.State(opts.Proposal)
	if err != nil {
		return EngineError(f, err)
	}
	p, err := rt.Engine.GetProposal(opts.Proposal)
	if err != nil {
		return EngineError(f, err)
	}

	result := stateResult{
		Proposal:     opts.Proposal,
		State:        state.String(),
		ForVotes:     p.ForVotes.Dec(),
		AgainstVotes: p.AgainstVotes.Dec(),
		QuorumVotes:  rt.Engine.QuorumVotes().Dec(),
		Executable:   rt.Engine.IsExecutable(opts.Proposal),
	}
	if opts.Format == "json" {
		return f.Success(result)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "proposal %d: %s\n", result.Proposal, result.State)
	fmt.Fprintf(&b, "  for:     %s\n", FormatWeight(p.ForVotes))
	fmt.Fprintf(&b, "  against: %s\n", FormatWeight(p.AgainstVotes))
	fmt.Fprintf(&b, "  quorum:  %s\n", FormatWeight(rt.Engine.QuorumVotes()))
	fmt.Fprintf(&b, "  executable now: %t", result.Executable)
	return f.Success(b.String())
}
