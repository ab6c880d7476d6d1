// Package gov implements the token-weighted governance engine: the lock
// ledger, quadratic vote weighting, the proposal lifecycle, and the
// privileged bridge into the timelock executor.
//
// EXECUTION MODEL:
//
// There is no internal concurrency. Every state-mutating operation (lock,
// unlock, propose, vote, queue, execute, cancel) runs as a single atomic,
// serialized transaction against shared state; no operation ever observes
// another mid-flight. The only waiting is external: callers wait for real
// time to advance past a lock age, a voting end, or an eta.
//
// EFFECTS BEFORE INTERACTIONS:
//
// All invariant checks happen before any mutation; external token transfers
// and target invocations happen last. Because a Go host cannot revert the
// way the original ledger runtime does, operations that end in an external
// step stage their mutations and explicitly restore the prior values when
// the external step fails, so a failed operation never commits partial
// state.
//
// STATE MACHINE:
//
// Proposal states form a DAG, never a cycle:
//
//	Pending → Active → {Defeated | Succeeded} → Queued → {Executed | Expired | Canceled}
//
// with Canceled reachable from any pre-execution point by the original
// proposer only. State is computed lazily from stored facts and the clock;
// nothing transitions in the background.
package gov
