package gov

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/EquorumProtocol/equorum-gov/internal/config"
	"github.com/EquorumProtocol/equorum-gov/internal/timelock"
	"github.com/EquorumProtocol/equorum-gov/internal/token"
)

// Engine is the governance engine. It owns the lock ledger and the proposal
// store exclusively, and is the timelock's privileged caller (its Governor
// account holds the admin role in the reference deployment).
//
// All mutating methods serialize on an internal mutex: each call is one
// atomic transaction, mirroring the single-writer discipline of the
// original execution environment.
type Engine struct {
	mu sync.Mutex

	params   config.Params
	token    token.Ledger
	timelock *timelock.Timelock
	clock    Clock
	receipts ReceiptGenerator

	// Base-unit forms of the whole-token parameters, fixed at construction.
	minimumLock       *uint256.Int
	proposalThreshold *uint256.Int

	ledger        *LockLedger
	proposals     map[uint64]*Proposal
	proposalCount uint64
}

// NewEngine constructs an engine. The timelock must already name
// params.Governor as its admin; clock and receipts default to SystemClock
// and UUIDv7Generator when nil.
func NewEngine(params config.Params, tok token.Ledger, tl *timelock.Timelock, clock Clock, receipts ReceiptGenerator) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if receipts == nil {
		receipts = UUIDv7Generator{}
	}
	return &Engine{
		params:            params,
		token:             tok,
		timelock:          tl,
		clock:             clock,
		receipts:          receipts,
		minimumLock:       WholeTokens(params.MinimumLockTokens),
		proposalThreshold: WholeTokens(params.ProposalThresholdTokens),
		ledger:            NewLockLedger(),
		proposals:         make(map[uint64]*Proposal),
	}, nil
}

// Params returns the engine's parameter set.
func (e *Engine) Params() config.Params { return e.params }

// Timelock returns the executor this engine administers.
func (e *Engine) Timelock() *timelock.Timelock { return e.timelock }

// Lock deposits amount into governance custody, creating or topping up the
// caller's lock. The first lock stamps the lock time; top-ups do not reset
// it. The token pull happens after all state writes; if it fails, the
// staged mutation is rolled back and TransferFailed is returned.
func (e *Engine) Lock(caller common.Address, amount *uint256.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.params.IsExcluded(caller) {
		return admissionError(CodeExcludedAccount, "excluded account cannot lock")
	}
	if amount == nil || amount.Lt(e.minimumLock) {
		return admissionError(CodeBelowMinimumLock, "amount below minimum lock")
	}

	now := e.clock.Now()
	_, existed := e.ledger.locks[caller]
	e.ledger.credit(caller, amount, now)

	if err := e.token.TransferFrom(caller, e.params.Governor, amount); err != nil {
		e.ledger.uncredit(caller, amount, !existed)
		return externalError(CodeTransferFailed, "token transfer into custody failed", err)
	}

	slog.Info("tokens locked",
		"receipt", e.receipts.Generate(),
		"account", caller.Hex(),
		"amount", amount.Dec(),
		"total_locked", e.ledger.total.Dec(),
		"first_lock", !existed,
	)
	return nil
}

// Unlock releases the caller's entire lock. Rejected while the caller's
// unlock watermark is in the future, i.e. while any proposal it voted on is
// still inside its voting window. The token return happens after all state
// writes; on failure the record is restored untouched.
func (e *Engine) Unlock(caller common.Address) (*uint256.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.ledger.locks[caller]
	if !ok || rec.Amount.IsZero() {
		return nil, admissionError(CodeNoLockFound, "no tokens locked")
	}
	now := e.clock.Now()
	if after := e.ledger.UnlockAfter(caller); now.Before(after) {
		return nil, temporalError(CodeLockStillActive, "lock is held until voted proposals close")
	}

	amount, lockTime := e.ledger.clear(caller)

	if err := e.token.Transfer(e.params.Governor, caller, amount); err != nil {
		e.ledger.restore(caller, amount, lockTime)
		return nil, externalError(CodeTransferFailed, "token return from custody failed", err)
	}

	slog.Info("tokens unlocked",
		"receipt", e.receipts.Generate(),
		"account", caller.Hex(),
		"amount", amount.Dec(),
		"total_locked", e.ledger.total.Dec(),
	)
	return amount, nil
}

// Propose submits a proposal and returns its sequential id. The caller's
// lock must meet the proposal threshold and the minimum lock age.
func (e *Engine) Propose(caller common.Address, actions []Action, description string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.params.IsExcluded(caller) {
		return 0, admissionError(CodeExcludedAccount, "excluded account cannot propose")
	}
	if len(actions) == 0 {
		return 0, integrityError(CodeNoActions, "proposal must contain at least one action")
	}
	if description == "" {
		return 0, integrityError(CodeEmptyDescription, "proposal description must not be empty")
	}

	rec, ok := e.ledger.Get(caller)
	if !ok || rec.Amount.Lt(e.proposalThreshold) {
		return 0, admissionError(CodeBelowProposalThreshold, "lock below proposal threshold")
	}
	now := e.clock.Now()
	if now.Before(rec.LockTime.Add(e.params.MinLockAge)) {
		return 0, temporalError(CodeLockTooNew, "lock has not met the minimum age")
	}

	e.proposalCount++
	id := e.proposalCount

	stored := make([]Action, len(actions))
	for i, a := range actions {
		value := a.Value
		if value == nil {
			value = new(uint256.Int)
		}
		stored[i] = Action{
			Target:    a.Target,
			Value:     value.Clone(),
			Signature: a.Signature,
			Payload:   append([]byte(nil), a.Payload...),
		}
	}

	e.proposals[id] = &Proposal{
		ID:           id,
		Proposer:     caller,
		Description:  description,
		Actions:      stored,
		StartTime:    now,
		EndTime:      now.Add(e.params.VotingPeriod),
		ForVotes:     new(uint256.Int),
		AgainstVotes: new(uint256.Int),
		receipts:     make(map[common.Address]*VoteReceipt),
	}

	slog.Info("proposal created",
		"receipt", e.receipts.Generate(),
		"proposal", id,
		"proposer", caller.Hex(),
		"actions", len(stored),
		"end_time", e.proposals[id].EndTime.Unix(),
	)
	return id, nil
}

// CastVote records the caller's vote, weighted by the integer square root
// of its whole-token lock at vote time, and raises the caller's unlock
// watermark to the proposal's end time.
func (e *Engine) CastVote(caller common.Address, id uint64, support bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposal(id)
	if err != nil {
		return err
	}
	if e.stateLocked(p) != StateActive {
		return proposalError(CodeVotingClosed, ClassTemporal, "proposal is not accepting votes", id)
	}
	if r, ok := p.receipts[caller]; ok && r.HasVoted {
		return proposalError(CodeAlreadyVoted, ClassAdmission, "account already voted", id)
	}
	if e.params.IsExcluded(caller) {
		return admissionError(CodeExcludedAccount, "excluded account cannot vote")
	}

	rec, ok := e.ledger.Get(caller)
	if !ok || rec.Amount.Lt(e.minimumLock) {
		return admissionError(CodeInsufficientLock, "lock below voting minimum")
	}
	now := e.clock.Now()
	if now.Before(rec.LockTime.Add(e.params.MinLockAge)) {
		return temporalError(CodeLockTooNew, "lock has not met the minimum age")
	}

	weight := Weight(rec.Amount)
	if weight.IsZero() {
		return admissionError(CodeNoVotingPower, "lock yields zero voting weight")
	}

	p.receipts[caller] = &VoteReceipt{HasVoted: true, Support: support, Weight: weight}
	if support {
		p.ForVotes.Add(p.ForVotes, weight)
	} else {
		p.AgainstVotes.Add(p.AgainstVotes, weight)
	}
	e.ledger.raiseUnlockAfter(caller, p.EndTime)

	slog.Info("vote cast",
		"receipt", e.receipts.Generate(),
		"proposal", id,
		"voter", caller.Hex(),
		"support", support,
		"weight", weight.Dec(),
	)
	return nil
}

// Queue moves a succeeded proposal into the timelock: every action is
// queued with eta = now + delay. Queueing is all-or-nothing; if any action
// collides with an entry already in the timelock, the entries queued so far
// are rolled back and the collision is surfaced.
func (e *Engine) Queue(caller common.Address, id uint64) (time.Time, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposal(id)
	if err != nil {
		return time.Time{}, err
	}
	if p.Queued {
		return time.Time{}, proposalError(CodeAlreadyQueued, ClassIntegrity, "proposal already queued", id)
	}
	if s := e.stateLocked(p); s != StateSucceeded {
		return time.Time{}, proposalError(CodeProposalNotSucceeded, ClassTemporal,
			"proposal is "+s.String()+", not Succeeded", id)
	}

	eta := e.clock.Now().Add(e.params.TimelockDelay)
	for i, a := range p.Actions {
		if _, err := e.timelock.QueueTransaction(e.params.Governor, a.call(), eta); err != nil {
			for j := i - 1; j >= 0; j-- {
				// Entries we just queued must exist.
				_ = e.timelock.CancelTransaction(e.params.Governor, p.Actions[j].call(), eta)
			}
			if timelock.IsCode(err, timelock.CodeAlreadyQueued) {
				return time.Time{}, &Error{Code: CodeAlreadyQueued, Class: ClassIntegrity,
					Message: "an action is already queued under the same hash", ProposalID: id, Cause: err}
			}
			return time.Time{}, &Error{Code: CodeTransferFailed, Class: ClassExternal,
				Message: "timelock queue failed", ProposalID: id, Cause: err}
		}
	}

	p.Queued = true
	p.ETA = eta

	slog.Info("proposal queued",
		"receipt", e.receipts.Generate(),
		"proposal", id,
		"eta", eta.Unix(),
	)
	return eta, nil
}

// Execute replays a queued proposal's actions through the timelock, using
// the eta stored at queue time rather than the current clock. value must
// equal the overflow-checked sum of the action values.
//
// The host cannot revert an external call the way the original runtime
// does: on the first failing action the failing entry is restored, the
// proposal stays Queued, and ExecutionFailed is surfaced. Actions that
// already ran are not replayed on retry because their entries were
// consumed. Executed is set only after every action succeeds.
func (e *Engine) Execute(ctx context.Context, caller common.Address, id uint64, value *uint256.Int) ([][]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposal(id)
	if err != nil {
		return nil, err
	}
	switch s := e.stateLocked(p); s {
	case StateQueued:
	case StateExpired:
		return nil, proposalError(CodeProposalNotQueued, ClassTemporal, "proposal has expired", id)
	default:
		return nil, proposalError(CodeProposalNotQueued, ClassTemporal,
			"proposal is "+s.String()+", not Queued", id)
	}

	total, ok := p.valueTotal()
	if !ok {
		return nil, proposalError(CodeInvalidValue, ClassIntegrity, "action value sum overflows", id)
	}
	if value == nil {
		value = new(uint256.Int)
	}
	if !value.Eq(total) {
		return nil, proposalError(CodeInvalidValue, ClassIntegrity, "supplied value does not match action total", id)
	}

	outputs := make([][]byte, 0, len(p.Actions))
	for _, a := range p.Actions {
		out, err := e.timelock.ExecuteTransaction(ctx, e.params.Governor, a.call(), p.ETA)
		if err != nil {
			if timelock.IsCode(err, timelock.CodeNotQueued) {
				// Entry consumed by an earlier partial execution; skip.
				continue
			}
			// ETANotReached, TransactionExpired, ExecutionFailed propagate
			// as-is; the timelock error already names the condition.
			return nil, err
		}
		outputs = append(outputs, out)
	}

	p.Executed = true

	slog.Info("proposal executed",
		"receipt", e.receipts.Generate(),
		"proposal", id,
		"actions", len(p.Actions),
	)
	return outputs, nil
}

// Cancel aborts a proposal. Only the original proposer may cancel, at any
// pre-execution point. A queued proposal's timelock entries are canceled
// and the queued bookkeeping cleared.
func (e *Engine) Cancel(caller common.Address, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposal(id)
	if err != nil {
		return err
	}
	if caller != p.Proposer {
		return proposalError(CodeOnlyProposerCanCancel, ClassAdmission, "only the proposer can cancel", id)
	}
	if p.Executed {
		return proposalError(CodeCannotCancelExecuted, ClassIntegrity, "executed proposal cannot be canceled", id)
	}

	if p.Queued {
		for _, a := range p.Actions {
			if err := e.timelock.CancelTransaction(e.params.Governor, a.call(), p.ETA); err != nil {
				// An entry consumed by a partial execution is already gone.
				if !timelock.IsCode(err, timelock.CodeNotQueued) {
					return err
				}
			}
		}
		p.Queued = false
		p.ETA = time.Time{}
	}
	p.Canceled = true

	slog.Info("proposal canceled",
		"receipt", e.receipts.Generate(),
		"proposal", id,
	)
	return nil
}

// MarkExpired is a bookkeeping convenience: once a queued proposal's grace
// window has passed it records the Expired flag, clears the queued flag,
// and drops the stale timelock entries. The transition is irreversible and
// the resolved state remains Expired.
func (e *Engine) MarkExpired(id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposal(id)
	if err != nil {
		return err
	}
	if e.stateLocked(p) != StateExpired {
		return proposalError(CodeNotExpired, ClassTemporal, "proposal grace window has not passed", id)
	}

	if p.Queued {
		for _, a := range p.Actions {
			if err := e.timelock.CancelTransaction(e.params.Governor, a.call(), p.ETA); err != nil &&
				!timelock.IsCode(err, timelock.CodeNotQueued) {
				return err
			}
		}
	}
	p.Queued = false
	p.Expired = true

	slog.Info("proposal marked expired", "receipt", e.receipts.Generate(), "proposal", id)
	return nil
}

// State resolves the proposal's current lifecycle state.
func (e *Engine) State(id uint64) (ProposalState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposal(id)
	if err != nil {
		return 0, err
	}
	return e.stateLocked(p), nil
}

// QuorumVotes returns the vote weight a proposal must attract for its
// outcome to count, derived quadratically from the configured fraction of
// total supply.
func (e *Engine) QuorumVotes() *uint256.Int {
	return QuorumVotes(e.token.TotalSupply(), e.params.QuorumNumerator, e.params.QuorumDenominator)
}

// GetVotingPower returns the account's current quadratic weight and whether
// the account is eligible to vote right now (lock above minimum and past
// the minimum age).
func (e *Engine) GetVotingPower(account common.Address) (*uint256.Int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.ledger.Get(account)
	if !ok {
		return new(uint256.Int), false
	}
	weight := Weight(rec.Amount)
	eligible := !rec.Amount.Lt(e.minimumLock) &&
		!e.clock.Now().Before(rec.LockTime.Add(e.params.MinLockAge)) &&
		!e.params.IsExcluded(account)
	return weight, eligible
}

// GetLockInfo returns the account's lock record.
func (e *Engine) GetLockInfo(account common.Address) (Lock, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Get(account)
}

// GetUnlockAfter returns the account's unlock watermark.
func (e *Engine) GetUnlockAfter(account common.Address) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.UnlockAfter(account)
}

// TotalLocked returns the global locked amount.
func (e *Engine) TotalLocked() *uint256.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.TotalLocked()
}

// IsExecutable reports whether the proposal is queued and inside its
// execution window right now.
func (e *Engine) IsExecutable(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposal(id)
	if err != nil {
		return false
	}
	return e.stateLocked(p) == StateQueued && !e.clock.Now().Before(p.ETA)
}

// GetProposal returns a snapshot of the proposal record. Vote receipts are
// read through VoteReceipt instead.
func (e *Engine) GetProposal(id uint64) (Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposal(id)
	if err != nil {
		return Proposal{}, err
	}
	snap := *p
	snap.ForVotes = p.ForVotes.Clone()
	snap.AgainstVotes = p.AgainstVotes.Clone()
	snap.Actions = append([]Action(nil), p.Actions...)
	snap.receipts = nil
	return snap, nil
}

// VoteReceipt returns the recorded vote of an account on a proposal.
func (e *Engine) VoteReceipt(id uint64, account common.Address) (VoteReceipt, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.proposal(id)
	if err != nil {
		return VoteReceipt{}, false, err
	}
	r, ok := p.Receipt(account)
	return r, ok, nil
}

// ProposalCount returns the number of proposals ever created.
func (e *Engine) ProposalCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.proposalCount
}

// proposal looks up a proposal by id. Callers hold e.mu.
func (e *Engine) proposal(id uint64) (*Proposal, error) {
	p, ok := e.proposals[id]
	if !ok {
		return nil, proposalError(CodeInvalidProposal, ClassIntegrity, "unknown proposal id", id)
	}
	return p, nil
}

// stateLocked resolves state without taking the mutex. Callers hold e.mu.
func (e *Engine) stateLocked(p *Proposal) ProposalState {
	quorum := QuorumVotes(e.token.TotalSupply(), e.params.QuorumNumerator, e.params.QuorumDenominator)
	return resolveState(p, e.clock.Now(), e.params.GracePeriod, quorum)
}
