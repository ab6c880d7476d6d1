package gov

import (
	"time"

	"github.com/holiman/uint256"
)

// ProposalState is a proposal's position in the lifecycle DAG.
type ProposalState uint8

const (
	StatePending ProposalState = iota
	StateActive
	StateCanceled
	StateDefeated
	StateSucceeded
	StateQueued
	StateExpired
	StateExecuted
)

var stateNames = [...]string{
	StatePending:   "Pending",
	StateActive:    "Active",
	StateCanceled:  "Canceled",
	StateDefeated:  "Defeated",
	StateSucceeded: "Succeeded",
	StateQueued:    "Queued",
	StateExpired:   "Expired",
	StateExecuted:  "Executed",
}

// String returns the canonical state name.
func (s ProposalState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Terminal reports whether no further mutating call can succeed on a
// proposal in this state.
func (s ProposalState) Terminal() bool {
	return s == StateExecuted || s == StateCanceled || s == StateExpired
}

// resolveState computes the current state from stored facts and the clock,
// in strict priority order:
//
//  1. Canceled if the canceled flag is set.
//  2. Executed if the executed flag is set.
//  3. If queued (or already marked expired): Expired once now > eta+grace,
//     else Queued. The explicit expired flag survives MarkExpired clearing
//     the queued bookkeeping, so an expired proposal can never fall through
//     to a vote-derived state.
//  4. Pending before the voting window opens, Active until it closes.
//  5. Otherwise the tally decides: below quorum → Defeated; then
//     Succeeded iff forVotes > againstVotes, else Defeated.
func resolveState(p *Proposal, now time.Time, grace time.Duration, quorum *uint256.Int) ProposalState {
	switch {
	case p.Canceled:
		return StateCanceled
	case p.Executed:
		return StateExecuted
	}

	if p.Expired {
		return StateExpired
	}
	if p.Queued {
		if now.After(p.ETA.Add(grace)) {
			return StateExpired
		}
		return StateQueued
	}

	if now.Before(p.StartTime) {
		return StatePending
	}
	if now.Before(p.EndTime) {
		return StateActive
	}

	turnout := new(uint256.Int).Add(p.ForVotes, p.AgainstVotes)
	if turnout.Lt(quorum) {
		return StateDefeated
	}
	if p.ForVotes.Gt(p.AgainstVotes) {
		return StateSucceeded
	}
	return StateDefeated
}
