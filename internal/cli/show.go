package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Proposal uint64
}

// showAction is one action in the show command's JSON payload.
type showAction struct {
	Target    string `json:"target"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
	Payload   string `json:"payload,omitempty"`
}

// showResult is the JSON payload for the show command.
type showResult struct {
	Proposal    uint64       `json:"proposal"`
	Proposer    string       `json:"proposer"`
	Description string       `json:"description"`
	State       string       `json:"state"`
	StartTime   int64        `json:"start_time"`
	EndTime     int64        `json:"end_time"`
	ETA         int64        `json:"eta,omitempty"`
	Actions     []showAction `json:"actions"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a proposal's full record",
		Long: `Show a proposal's proposer, description, window, eta, and actions.

Examples:
  equorum-gov show --proposal 1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().Uint64Var(&opts.Proposal, "proposal", 0, "proposal id (required)")
	_ = cmd.MarkFlagRequired("proposal")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	rt, err := OpenRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	p, err := rt.Engine.GetProposal(opts.Proposal)
	if err != nil {
		return EngineError(f, err)
	}
	state, err := rt.Engine.State(opts.Proposal)
	if err != nil {
		return EngineError(f, err)
	}

	result := showResult{
		Proposal:    p.ID,
		Proposer:    p.Proposer.Hex(),
		Description: p.Description,
		State:       state.String(),
		StartTime:   p.StartTime.Unix(),
		EndTime:     p.EndTime.Unix(),
		Actions:     make([]showAction, len(p.Actions)),
	}
	if !p.ETA.IsZero() {
		result.ETA = p.ETA.Unix()
	}
	for i, a := range p.Actions {
		result.Actions[i] = showAction{
			Target:    a.Target.Hex(),
			Value:     a.Value.Dec(),
			Signature: a.Signature,
			Payload:   fmt.Sprintf("0x%x", a.Payload),
		}
	}
	if opts.Format == "json" {
		return f.Success(result)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "proposal %d (%s)\n", result.Proposal, result.State)
	fmt.Fprintf(&b, "  proposer:    %s\n", result.Proposer)
	fmt.Fprintf(&b, "  description: %s\n", result.Description)
	fmt.Fprintf(&b, "  window:      %s to %s\n",
		p.StartTime.UTC().Format("2006-01-02 15:04:05"),
		p.EndTime.UTC().Format("2006-01-02 15:04:05 MST"))
	if !p.ETA.IsZero() {
		fmt.Fprintf(&b, "  eta:         %s\n", p.ETA.UTC().Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(&b, "  actions:")
	for i, a := range result.Actions {
		fmt.Fprintf(&b, "\n    [%d] %s value=%s", i, a.Target, a.Value)
		if a.Signature != "" {
			fmt.Fprintf(&b, " %s", a.Signature)
		}
	}
	return f.Success(b.String())
}
