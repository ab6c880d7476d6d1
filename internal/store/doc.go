// Package store persists the governance operation journal.
//
// The persistence model is "journal + deterministic replay": every applied
// operation is appended to an append-only SQLite table with its receipt
// token and wall-clock timestamp, and a fresh engine replays the journal
// with a clock pinned to each record's timestamp to reconstruct identical
// state. Only operations that were actually applied are journaled, so a
// replay failure indicates a corrupted or hand-edited journal, never a
// recorded caller mistake.
//
// SQLite runs in WAL mode with a single writer, matching the engine's
// serialized execution model.
package store
