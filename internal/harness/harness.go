package harness

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/EquorumProtocol/equorum-gov/internal/config"
	"github.com/EquorumProtocol/equorum-gov/internal/gov"
	"github.com/EquorumProtocol/equorum-gov/internal/testutil"
	"github.com/EquorumProtocol/equorum-gov/internal/timelock"
	"github.com/EquorumProtocol/equorum-gov/internal/token"
)

// aliasDomain separates harness-derived account addresses from every other
// hash in the system.
const aliasDomain = "equorum/harness/account"

// Addr derives the deterministic address for an account alias.
func Addr(alias string) common.Address {
	h := crypto.Keccak256([]byte(aliasDomain), []byte{0x00}, []byte(alias))
	return common.BytesToAddress(h[12:])
}

// env is the assembled system a scenario runs against.
type env struct {
	params config.Params
	ledger *token.MemoryLedger
	router *timelock.Router
	engine *gov.Engine
	clock  *testutil.ManualClock
}

// Run executes a scenario against a fresh engine and returns the result.
// Step mismatches and assertion failures land in Result.Errors; an error
// return means the scenario itself could not be set up.
func Run(scenario *Scenario) (*Result, error) {
	e, err := buildEnv(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	ctx := context.Background()

	for i, step := range scenario.Steps {
		if step.Advance != "" {
			d, err := time.ParseDuration(step.Advance)
			if err != nil {
				return nil, fmt.Errorf("step %d: bad advance duration: %w", i, err)
			}
			e.clock.Advance(d)
			result.AddTrace("advance", "", "", step.Advance)
			continue
		}

		detail, opErr := e.runOp(ctx, step)
		outcome := "ok"
		if opErr != nil {
			outcome = errCode(opErr)
		}
		result.AddTrace(step.Op, step.Actor, outcome, detail)

		switch {
		case step.ExpectError == "" && opErr != nil:
			result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", i, step.Op, opErr))
		case step.ExpectError != "" && opErr == nil:
			result.AddError(fmt.Sprintf("step %d (%s): expected %s, got success", i, step.Op, step.ExpectError))
		case step.ExpectError != "" && outcome != step.ExpectError:
			result.AddError(fmt.Sprintf("step %d (%s): expected %s, got %s", i, step.Op, step.ExpectError, outcome))
		}
	}

	for i, a := range scenario.Assertions {
		if err := e.evaluate(a, result); err != nil {
			result.AddError(fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return result, nil
}

// buildEnv wires a fresh ledger, timelock and engine with the default
// parameter set, mints the genesis balances, and registers an accepting
// router handler for every alias so proposal actions have somewhere to land.
func buildEnv(scenario *Scenario) (*env, error) {
	params := config.Default()
	clock := testutil.NewManualClock()
	ledger := token.NewMemoryLedger()
	router := timelock.NewRouter()

	tl, err := timelock.New(params.Governor, params.TimelockDelay, params.GracePeriod, clock, router)
	if err != nil {
		return nil, fmt.Errorf("build timelock: %w", err)
	}
	engine, err := gov.NewEngine(params, ledger, tl, clock, &gov.SequenceGenerator{})
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	e := &env{params: params, ledger: ledger, router: router, engine: engine, clock: clock}

	// Genesis minting in sorted alias order keeps the ledger identical
	// across runs even though the balances are a map.
	aliases := make([]string, 0, len(scenario.Genesis))
	for alias := range scenario.Genesis {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		amount, err := wholeAmount(scenario.Genesis[alias])
		if err != nil {
			return nil, fmt.Errorf("genesis %q: %w", alias, err)
		}
		if err := ledger.Mint(Addr(alias), amount); err != nil {
			return nil, fmt.Errorf("genesis %q: %w", alias, err)
		}
		e.register(alias)
	}

	// Action targets need handlers too.
	for _, step := range scenario.Steps {
		for _, a := range step.Actions {
			e.register(a.Target)
		}
	}
	return e, nil
}

func (e *env) register(alias string) {
	e.router.Register(Addr(alias), func(ctx context.Context, value *uint256.Int, input []byte) ([]byte, error) {
		return nil, nil
	})
}

func (e *env) runOp(ctx context.Context, step Step) (string, error) {
	actor := Addr(step.Actor)

	switch step.Op {
	case "lock":
		amount, err := wholeAmount(step.Amount)
		if err != nil {
			return "", err
		}
		if err := e.engine.Lock(actor, amount); err != nil {
			return "", err
		}
		return "amount=" + step.Amount, nil

	case "unlock":
		amount, err := e.engine.Unlock(actor)
		if err != nil {
			return "", err
		}
		whole := new(uint256.Int).Div(amount, gov.Scale)
		return "returned=" + whole.Dec(), nil

	case "propose":
		actions, err := buildActions(step.Actions)
		if err != nil {
			return "", err
		}
		id, err := e.engine.Propose(actor, actions, step.Description)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("proposal=%d", id), nil

	case "vote":
		if err := e.engine.CastVote(actor, step.Proposal, step.Support); err != nil {
			return "", err
		}
		receipt, _, err := e.engine.VoteReceipt(step.Proposal, actor)
		if err != nil {
			return "", err
		}
		return "weight=" + receipt.Weight.Dec(), nil

	case "queue":
		eta, err := e.engine.Queue(actor, step.Proposal)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("eta=%d", eta.Unix()), nil

	case "execute":
		value := new(uint256.Int)
		if step.Value != "" {
			v, err := uint256.FromDecimal(step.Value)
			if err != nil {
				return "", err
			}
			value = v
		}
		outputs, err := e.engine.Execute(ctx, actor, step.Proposal, value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("outputs=%d", len(outputs)), nil

	case "cancel":
		if err := e.engine.Cancel(actor, step.Proposal); err != nil {
			return "", err
		}
		return fmt.Sprintf("proposal=%d", step.Proposal), nil

	case "mark_expired":
		if err := e.engine.MarkExpired(step.Proposal); err != nil {
			return "", err
		}
		return fmt.Sprintf("proposal=%d", step.Proposal), nil

	default:
		return "", fmt.Errorf("unknown op %q", step.Op)
	}
}

func buildActions(specs []ActionSpec) ([]gov.Action, error) {
	actions := make([]gov.Action, len(specs))
	for i, s := range specs {
		value := new(uint256.Int)
		if s.Value != "" {
			v, err := uint256.FromDecimal(s.Value)
			if err != nil {
				return nil, fmt.Errorf("actions[%d]: bad value: %w", i, err)
			}
			value = v
		}
		var payload []byte
		if s.Payload != "" {
			b, err := common.ParseHexOrString(s.Payload)
			if err != nil {
				return nil, fmt.Errorf("actions[%d]: bad payload: %w", i, err)
			}
			payload = b
		}
		actions[i] = gov.Action{
			Target:    Addr(s.Target),
			Value:     value,
			Signature: s.Signature,
			Payload:   payload,
		}
	}
	return actions, nil
}

// wholeAmount parses a whole-token decimal string into base units.
func wholeAmount(s string) (*uint256.Int, error) {
	n, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("bad token amount %q: %w", s, err)
	}
	amount, overflow := new(uint256.Int).MulOverflow(n, gov.Scale)
	if overflow {
		return nil, fmt.Errorf("token amount %q overflows", s)
	}
	return amount, nil
}

// errCode extracts the rejection code from a governance or timelock error.
func errCode(err error) string {
	if code := gov.ErrCode(err); code != "" {
		return string(code)
	}
	var te *timelock.Error
	if errors.As(err, &te) {
		return string(te.Code)
	}
	return "ERROR"
}
