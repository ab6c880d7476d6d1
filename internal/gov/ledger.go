package gov

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Lock is one account's stake in the governance engine.
// Invariant: Amount is zero exactly when LockTime is zero. A record either
// exists fully or not at all.
type Lock struct {
	Amount   *uint256.Int
	LockTime time.Time
}

// LockLedger tracks locked amounts, first-lock timestamps, per-account
// unlock watermarks, and the global locked total. It holds pure state; the
// engine orchestrates validation and token movement around it.
type LockLedger struct {
	locks       map[common.Address]*Lock
	unlockAfter map[common.Address]time.Time
	total       *uint256.Int
}

// NewLockLedger creates an empty ledger.
func NewLockLedger() *LockLedger {
	return &LockLedger{
		locks:       make(map[common.Address]*Lock),
		unlockAfter: make(map[common.Address]time.Time),
		total:       new(uint256.Int),
	}
}

// Get returns a copy of the account's lock record.
// ok is false when the account has nothing locked.
func (l *LockLedger) Get(account common.Address) (Lock, bool) {
	rec, ok := l.locks[account]
	if !ok {
		return Lock{}, false
	}
	return Lock{Amount: rec.Amount.Clone(), LockTime: rec.LockTime}, true
}

// UnlockAfter returns the account's unlock watermark (zero if never voted).
// The watermark never decreases.
func (l *LockLedger) UnlockAfter(account common.Address) time.Time {
	return l.unlockAfter[account]
}

// TotalLocked returns the global locked amount.
func (l *LockLedger) TotalLocked() *uint256.Int {
	return l.total.Clone()
}

// credit adds amount to the account's lock. The first lock stamps LockTime;
// top-ups deliberately do NOT reset it (documented trade-off: an aged small
// lock can be topped up and vote immediately with full weight).
func (l *LockLedger) credit(account common.Address, amount *uint256.Int, now time.Time) {
	rec, ok := l.locks[account]
	if !ok {
		l.locks[account] = &Lock{Amount: amount.Clone(), LockTime: now}
	} else {
		rec.Amount.Add(rec.Amount, amount)
	}
	l.total.Add(l.total, amount)
}

// uncredit reverses a credit. Used only to roll back a staged lock whose
// token transfer failed.
func (l *LockLedger) uncredit(account common.Address, amount *uint256.Int, firstLock bool) {
	if firstLock {
		delete(l.locks, account)
	} else if rec, ok := l.locks[account]; ok {
		rec.Amount.Sub(rec.Amount, amount)
	}
	l.total.Sub(l.total, amount)
}

// clear zeroes the account's record and returns the released amount and the
// original lock time (kept for rollback).
func (l *LockLedger) clear(account common.Address) (amount *uint256.Int, lockTime time.Time) {
	rec, ok := l.locks[account]
	if !ok {
		return new(uint256.Int), time.Time{}
	}
	amount = rec.Amount.Clone()
	lockTime = rec.LockTime
	delete(l.locks, account)
	l.total.Sub(l.total, amount)
	return amount, lockTime
}

// restore reinstates a cleared record. Used only to roll back an unlock
// whose token return failed.
func (l *LockLedger) restore(account common.Address, amount *uint256.Int, lockTime time.Time) {
	l.locks[account] = &Lock{Amount: amount.Clone(), LockTime: lockTime}
	l.total.Add(l.total, amount)
}

// raiseUnlockAfter lifts the account's watermark to t if t is later.
func (l *LockLedger) raiseUnlockAfter(account common.Address, t time.Time) {
	if t.After(l.unlockAfter[account]) {
		l.unlockAfter[account] = t
	}
}
