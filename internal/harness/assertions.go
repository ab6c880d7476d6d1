package harness

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/EquorumProtocol/equorum-gov/internal/gov"
)

// evaluate checks one assertion against the finished environment, recording
// failures into the result. An error return means the assertion itself was
// unusable (e.g. an unknown proposal id).
func (e *env) evaluate(a Assertion, result *Result) error {
	switch a.Type {
	case AssertState:
		state, err := e.engine.State(a.Proposal)
		if err != nil {
			return err
		}
		if state.String() != a.Expect {
			result.AddError(fmt.Sprintf("state: proposal %d is %s, expected %s",
				a.Proposal, state, a.Expect))
		}

	case AssertTally:
		p, err := e.engine.GetProposal(a.Proposal)
		if err != nil {
			return err
		}
		if p.ForVotes.Dec() != a.For || p.AgainstVotes.Dec() != a.Against {
			result.AddError(fmt.Sprintf("tally: proposal %d has for=%s against=%s, expected for=%s against=%s",
				a.Proposal, p.ForVotes.Dec(), p.AgainstVotes.Dec(), a.For, a.Against))
		}

	case AssertPower:
		weight, eligible := e.engine.GetVotingPower(Addr(a.Account))
		if weight.Dec() != a.Weight || eligible != a.Eligible {
			result.AddError(fmt.Sprintf("power: %s has weight=%s eligible=%t, expected weight=%s eligible=%t",
				a.Account, weight.Dec(), eligible, a.Weight, a.Eligible))
		}

	case AssertTotalLocked:
		whole := new(uint256.Int).Div(e.engine.TotalLocked(), gov.Scale)
		if whole.Dec() != a.Amount {
			result.AddError(fmt.Sprintf("total_locked: %s tokens, expected %s", whole.Dec(), a.Amount))
		}

	case AssertQuorum:
		quorum := e.engine.QuorumVotes()
		if quorum.Dec() != a.Weight {
			result.AddError(fmt.Sprintf("quorum: required weight is %s, expected %s", quorum.Dec(), a.Weight))
		}

	case AssertTraceContains:
		if !traceMatches(result.Trace, a) {
			result.AddError(fmt.Sprintf("trace_contains: no event matches op=%s actor=%s outcome=%s",
				a.Op, a.Account, a.Outcome))
		}

	case AssertTraceCount:
		n := 0
		for _, event := range result.Trace {
			if eventMatches(event, a) {
				n++
			}
		}
		if n != a.Count {
			result.AddError(fmt.Sprintf("trace_count: op=%s matched %d events, expected %d", a.Op, n, a.Count))
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func traceMatches(trace []TraceEvent, a Assertion) bool {
	for _, event := range trace {
		if eventMatches(event, a) {
			return true
		}
	}
	return false
}

// eventMatches applies subset semantics: only the fields the assertion sets
// are compared.
func eventMatches(event TraceEvent, a Assertion) bool {
	if event.Op != a.Op {
		return false
	}
	if a.Account != "" && event.Actor != a.Account {
		return false
	}
	if a.Outcome != "" && event.Outcome != a.Outcome {
		return false
	}
	return true
}
