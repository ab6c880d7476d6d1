// Package harness runs YAML conformance scenarios against the governance
// engine and compares their traces to golden files.
//
// A scenario declares a genesis token distribution, a sequence of steps
// (clock advances and governance operations), and assertions over the final
// state. Scenarios run against a real engine wired to an in-memory token
// ledger and a timelock whose external calls land in a recording router.
// Nothing is mocked at the governance layer: an expected rejection in a
// scenario is a real rejection produced by the engine.
//
// Determinism comes from three substitutions: a manual clock that only moves
// on explicit advance steps, sequential receipt tokens, and account
// addresses derived by hashing the scenario's aliases. Running the same
// scenario twice produces byte-identical traces, which is what makes golden
// comparison meaningful.
package harness
