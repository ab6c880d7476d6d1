// Package timelock implements a delay-then-execute queue for arbitrary
// external calls.
//
// Entries are identified by a content hash of (target, value, signature,
// payload, eta). Membership is boolean: an entry is either queued or it is
// not, and the same hash cannot be queued twice while present. Execution is
// only valid inside the [eta, eta+grace] window; the delay and grace
// constants are fixed at construction and never change.
//
// The executor has exactly one admin at any time. In the reference
// deployment the governance engine holds the admin role and is the sole
// caller; ownership can be handed off either immediately (ChangeAdmin) or
// via a two-step nomination (SetPendingAdmin / AcceptAdmin).
//
// ORDERING: ExecuteTransaction clears the entry BEFORE invoking the target,
// so a reentrant call observes the entry as consumed. If the target call
// fails, the entry is restored and the caller may retry; no other state is
// touched.
package timelock
