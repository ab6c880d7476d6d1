package cli

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/EquorumProtocol/equorum-gov/internal/gov"
	"github.com/EquorumProtocol/equorum-gov/internal/store"
)

// ProposeOptions holds flags for the propose command.
type ProposeOptions struct {
	*RootOptions
	From        string
	Description string
	Targets     []string
	Values      []string
	Signatures  []string
	Payloads    []string
}

// NewProposeCommand creates the propose command.
func NewProposeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProposeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Submit a proposal",
		Long: `Submit a proposal with one or more actions. Repeat --target to add
actions; --value, --signature and --payload pair with targets by
position and may be omitted entirely (defaulting to zero value, no
signature, no payload).

Examples:
  equorum-gov propose --from 0xabc... \
    --description "Release treasury grant tranche 1" \
    --target 0xdef... --signature "release(address,uint256)"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPropose(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "proposing account (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "proposal description (required)")
	cmd.Flags().StringArrayVar(&opts.Targets, "target", nil, "action target address (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Values, "value", nil, "action value in base units (pairs with --target)")
	cmd.Flags().StringArrayVar(&opts.Signatures, "signature", nil, "action function signature (pairs with --target)")
	cmd.Flags().StringArrayVar(&opts.Payloads, "payload", nil, "action payload as 0x hex (pairs with --target)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runPropose(opts *ProposeOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd)

	from, err := ParseAddress(opts.From)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad --from", err)
	}
	actions, payload, err := assembleActions(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "bad actions", err)
	}
	payload.Description = opts.Description

	rt, err := OpenRuntime(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer rt.Close()

	id, err := rt.Engine.Propose(from, actions, opts.Description)
	if err != nil {
		return EngineError(f, err)
	}
	for _, a := range actions {
		rt.RegisterTarget(a.Target)
	}
	if err := rt.Record(ctx, store.KindPropose, from, payload); err != nil {
		return err
	}

	return f.Success(fmt.Sprintf("proposal %d created with %d action(s), voting ends %s",
		id, len(actions), endTimeOf(rt, id)))
}

// assembleActions pads the positional flag lists to the target count,
// builds the engine actions, and produces the journal payload in one pass.
func assembleActions(opts *ProposeOptions) ([]gov.Action, store.ProposePayload, error) {
	n := len(opts.Targets)
	if len(opts.Values) > n || len(opts.Signatures) > n || len(opts.Payloads) > n {
		return nil, store.ProposePayload{}, fmt.Errorf("more --value/--signature/--payload flags than --target flags")
	}

	targets := make([]common.Address, n)
	values := make([]*uint256.Int, n)
	signatures := make([]string, n)
	payloads := make([][]byte, n)
	journal := store.ProposePayload{
		Targets:    make([]string, n),
		Values:     make([]string, n),
		Signatures: make([]string, n),
		Payloads:   make([]string, n),
	}

	for i := 0; i < n; i++ {
		addr, err := ParseAddress(opts.Targets[i])
		if err != nil {
			return nil, store.ProposePayload{}, fmt.Errorf("target %d: %w", i, err)
		}
		targets[i] = addr
		journal.Targets[i] = addr.Hex()

		values[i] = new(uint256.Int)
		if i < len(opts.Values) && opts.Values[i] != "" {
			v, err := uint256.FromDecimal(opts.Values[i])
			if err != nil {
				return nil, store.ProposePayload{}, fmt.Errorf("value %d: %w", i, err)
			}
			values[i] = v
		}
		journal.Values[i] = values[i].Dec()

		if i < len(opts.Signatures) {
			signatures[i] = opts.Signatures[i]
		}
		journal.Signatures[i] = signatures[i]

		if i < len(opts.Payloads) && opts.Payloads[i] != "" {
			b, err := common.ParseHexOrString(opts.Payloads[i])
			if err != nil {
				return nil, store.ProposePayload{}, fmt.Errorf("payload %d: %w", i, err)
			}
			payloads[i] = b
			journal.Payloads[i] = opts.Payloads[i]
		} else {
			journal.Payloads[i] = "0x"
		}
	}

	actions, err := gov.BuildActions(targets, values, signatures, payloads)
	if err != nil {
		return nil, store.ProposePayload{}, err
	}
	return actions, journal, nil
}

func endTimeOf(rt *Runtime, id uint64) string {
	p, err := rt.Engine.GetProposal(id)
	if err != nil {
		return "unknown"
	}
	return p.EndTime.UTC().Format("2006-01-02 15:04:05 MST")
}
