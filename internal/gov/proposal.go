package gov

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/EquorumProtocol/equorum-gov/internal/timelock"
)

// Action is one external call enclosed in a proposal: a target account, an
// attached value, and a function signature plus argument payload (or a raw
// payload when the signature is empty).
type Action struct {
	Target    common.Address
	Value     *uint256.Int
	Signature string
	Payload   []byte
}

func (a Action) call() timelock.Call {
	value := a.Value
	if value == nil {
		value = new(uint256.Int)
	}
	return timelock.Call{
		Target:    a.Target,
		Value:     value,
		Signature: a.Signature,
		Payload:   a.Payload,
	}
}

// BuildActions assembles actions from the parallel lists the external
// surface accepts. All four lists must have the same, non-zero length.
func BuildActions(targets []common.Address, values []*uint256.Int, signatures []string, payloads [][]byte) ([]Action, error) {
	if len(targets) == 0 {
		return nil, integrityError(CodeNoActions, "proposal must contain at least one action")
	}
	if len(values) != len(targets) || len(signatures) != len(targets) || len(payloads) != len(targets) {
		return nil, integrityError(CodeArrayLengthMismatch, "action lists must have equal lengths")
	}

	actions := make([]Action, len(targets))
	for i := range targets {
		value := values[i]
		if value == nil {
			value = new(uint256.Int)
		}
		actions[i] = Action{
			Target:    targets[i],
			Value:     value.Clone(),
			Signature: signatures[i],
			Payload:   append([]byte(nil), payloads[i]...),
		}
	}
	return actions, nil
}

// VoteReceipt records one account's vote on one proposal: the direction and
// the weight snapshotted at vote time.
type VoteReceipt struct {
	HasVoted bool
	Support  bool
	Weight   *uint256.Int
}

// Proposal is the stored record for one proposal. Proposals are never
// deleted; their state is computed lazily from these facts.
type Proposal struct {
	ID          uint64
	Proposer    common.Address
	Description string
	Actions     []Action

	StartTime time.Time
	EndTime   time.Time

	ForVotes     *uint256.Int
	AgainstVotes *uint256.Int

	Executed bool
	Canceled bool
	Queued   bool
	Expired  bool
	ETA      time.Time

	receipts map[common.Address]*VoteReceipt
}

// Receipt returns the vote record for an account, if any.
func (p *Proposal) Receipt(account common.Address) (VoteReceipt, bool) {
	r, ok := p.receipts[account]
	if !ok {
		return VoteReceipt{}, false
	}
	return VoteReceipt{HasVoted: r.HasVoted, Support: r.Support, Weight: r.Weight.Clone()}, true
}

// valueTotal sums the action values, guarding against overflow.
func (p *Proposal) valueTotal() (*uint256.Int, bool) {
	total := new(uint256.Int)
	for _, a := range p.Actions {
		if a.Value == nil {
			continue
		}
		var overflow bool
		total, overflow = total.AddOverflow(total, a.Value)
		if overflow {
			return nil, false
		}
	}
	return total, true
}
