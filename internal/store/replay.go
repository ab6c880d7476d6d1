package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/EquorumProtocol/equorum-gov/internal/gov"
	"github.com/EquorumProtocol/equorum-gov/internal/token"
)

// ReplayClock drives an engine through journal replay. While pinned it
// returns the timestamp of the operation being replayed; after GoLive it
// reads the wall clock. This is what makes replay deterministic: every
// temporal rule re-evaluates against the time the operation originally ran.
type ReplayClock struct {
	mu     sync.Mutex
	pinned time.Time
	live   bool
}

// NewReplayClock creates a pinned clock at the zero time.
func NewReplayClock() *ReplayClock {
	return &ReplayClock{}
}

// Pin sets the replay timestamp.
func (c *ReplayClock) Pin(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned = t
	c.live = false
}

// GoLive switches the clock to wall time. Called once replay finishes.
func (c *ReplayClock) GoLive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live = true
}

// Now implements the gov and timelock Clock interfaces.
func (c *ReplayClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live {
		return time.Now()
	}
	return c.pinned
}

// Replay feeds journaled operations through a fresh engine in order,
// pinning the clock to each record's timestamp. The journal holds only
// operations that were applied, so any rejection here means the journal
// and the code disagree; that is surfaced, not skipped.
//
// Fund operations mint on the development ledger; everything else goes
// through the engine.
func Replay(ctx context.Context, ops []Operation, eng *gov.Engine, mint *token.MemoryLedger, clk *ReplayClock) error {
	for _, op := range ops {
		clk.Pin(op.Time)
		if err := apply(ctx, op, eng, mint); err != nil {
			return fmt.Errorf("store: replay seq %d (%s): %w", op.Seq, op.Kind, err)
		}
	}
	return nil
}

func apply(ctx context.Context, op Operation, eng *gov.Engine, mint *token.MemoryLedger) error {
	switch op.Kind {
	case KindFund:
		var p FundPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		amount, err := uint256.FromDecimal(p.Amount)
		if err != nil {
			return err
		}
		return mint.Mint(op.Caller, amount)

	case KindLock:
		var p LockPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		amount, err := uint256.FromDecimal(p.Amount)
		if err != nil {
			return err
		}
		return eng.Lock(op.Caller, amount)

	case KindUnlock:
		_, err := eng.Unlock(op.Caller)
		return err

	case KindPropose:
		var p ProposePayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		actions, err := decodeActions(p)
		if err != nil {
			return err
		}
		_, err = eng.Propose(op.Caller, actions, p.Description)
		return err

	case KindVote:
		var p VotePayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		return eng.CastVote(op.Caller, p.ProposalID, p.Support)

	case KindQueue:
		var p ProposalPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		_, err := eng.Queue(op.Caller, p.ProposalID)
		return err

	case KindExecute:
		var p ExecutePayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		value, err := uint256.FromDecimal(p.Value)
		if err != nil {
			return err
		}
		_, err = eng.Execute(ctx, op.Caller, p.ProposalID, value)
		return err

	case KindCancel:
		var p ProposalPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		return eng.Cancel(op.Caller, p.ProposalID)

	case KindMarkExpired:
		var p ProposalPayload
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return err
		}
		return eng.MarkExpired(p.ProposalID)

	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

func decodeActions(p ProposePayload) ([]gov.Action, error) {
	targets := make([]common.Address, len(p.Targets))
	for i, t := range p.Targets {
		targets[i] = common.HexToAddress(t)
	}

	values := make([]*uint256.Int, len(p.Values))
	for i, v := range p.Values {
		val, err := uint256.FromDecimal(v)
		if err != nil {
			return nil, fmt.Errorf("action value %d: %w", i, err)
		}
		values[i] = val
	}

	payloads := make([][]byte, len(p.Payloads))
	for i, h := range p.Payloads {
		b, err := hexBytes(h)
		if err != nil {
			return nil, fmt.Errorf("action payload %d: %w", i, err)
		}
		payloads[i] = b
	}

	return gov.BuildActions(targets, values, p.Signatures, payloads)
}

func hexBytes(s string) ([]byte, error) {
	if s == "" || s == "0x" {
		return nil, nil
	}
	return common.ParseHexOrString(s)
}
