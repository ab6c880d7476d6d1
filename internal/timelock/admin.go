package timelock

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
)

// Admin handoff. Exactly one admin exists at any time; the pending slot is
// cleared whenever the admin changes by either path, so the one-step path
// always supersedes an outstanding nomination.

// Admin returns the current admin.
func (t *Timelock) Admin() common.Address {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.admin
}

// PendingAdmin returns the nominated candidate, or the zero address when
// there is no outstanding nomination.
func (t *Timelock) PendingAdmin() common.Address {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pendingAdmin
}

// ChangeAdmin immediately replaces the admin and clears any pending
// nomination. Current admin only.
func (t *Timelock) ChangeAdmin(caller, newAdmin common.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.requireAdmin(caller); err != nil {
		return err
	}
	if newAdmin == (common.Address{}) {
		return newError(CodeZeroAddress, "new admin must not be the zero address")
	}

	old := t.admin
	t.admin = newAdmin
	t.pendingAdmin = common.Address{}

	slog.Info("timelock admin changed", "old", old.Hex(), "new", newAdmin.Hex())
	return nil
}

// SetPendingAdmin nominates a candidate for the two-step handoff.
// Current admin only. Nominating the zero address withdraws the nomination.
func (t *Timelock) SetPendingAdmin(caller, candidate common.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.requireAdmin(caller); err != nil {
		return err
	}
	t.pendingAdmin = candidate

	slog.Info("timelock pending admin set", "candidate", candidate.Hex())
	return nil
}

// AcceptAdmin completes the two-step handoff. Only the nominated candidate
// may call it; the swap clears the pending slot.
func (t *Timelock) AcceptAdmin(caller common.Address) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pendingAdmin == (common.Address{}) || caller != t.pendingAdmin {
		return newError(CodeNotPendingAdmin, "caller is not the pending admin")
	}

	old := t.admin
	t.admin = caller
	t.pendingAdmin = common.Address{}

	slog.Info("timelock admin accepted", "old", old.Hex(), "new", caller.Hex())
	return nil
}
