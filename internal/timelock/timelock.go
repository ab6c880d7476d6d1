package timelock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Clock supplies the executor's notion of current time. Satisfied by
// SystemClock in production and by a manual clock in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Timelock is the delayed-execution queue. All state-mutating methods are
// serialized; no method ever observes another mid-flight.
type Timelock struct {
	mu sync.Mutex

	admin        common.Address
	pendingAdmin common.Address // zero address = no nomination

	delay time.Duration
	grace time.Duration

	clock   Clock
	invoker Invoker

	queued map[common.Hash]bool
}

// New constructs a Timelock. delay and grace are fixed for the lifetime of
// the instance.
func New(admin common.Address, delay, grace time.Duration, clock Clock, invoker Invoker) (*Timelock, error) {
	if admin == (common.Address{}) {
		return nil, newError(CodeZeroAddress, "admin must not be the zero address")
	}
	if delay <= 0 || grace <= 0 {
		return nil, fmt.Errorf("timelock: delay and grace must be positive")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timelock{
		admin:   admin,
		delay:   delay,
		grace:   grace,
		clock:   clock,
		invoker: invoker,
		queued:  make(map[common.Hash]bool),
	}, nil
}

// Delay returns the mandatory wait between queueing and execution.
func (t *Timelock) Delay() time.Duration { return t.delay }

// Grace returns the window after eta during which execution remains valid.
func (t *Timelock) Grace() time.Duration { return t.grace }

// QueueTransaction admits an entry into the queue and returns its content
// hash. The eta must be at least delay in the future.
func (t *Timelock) QueueTransaction(caller common.Address, call Call, eta time.Time) (common.Hash, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.requireAdmin(caller); err != nil {
		return common.Hash{}, err
	}

	now := t.clock.Now()
	if eta.Before(now.Add(t.delay)) {
		return common.Hash{}, newError(CodeETATooSoon, "eta must satisfy the mandatory delay")
	}

	hash := TxHash(call, eta)
	if t.queued[hash] {
		return common.Hash{}, newTxError(CodeAlreadyQueued, "transaction already queued", hash)
	}
	t.queued[hash] = true

	slog.Info("transaction queued",
		"tx", hash.Hex(),
		"target", call.Target.Hex(),
		"signature", call.Signature,
		"eta", eta.Unix(),
	)
	return hash, nil
}

// ExecuteTransaction replays a queued entry after its eta and before
// eta+grace, returning the target's output.
//
// The entry is cleared before the target is invoked so that a reentrant
// call cannot execute it twice. If the call fails, the entry is restored
// with all other state untouched, and the caller may retry once the
// external condition is fixed.
func (t *Timelock) ExecuteTransaction(ctx context.Context, caller common.Address, call Call, eta time.Time) ([]byte, error) {
	t.mu.Lock()

	if err := t.requireAdmin(caller); err != nil {
		t.mu.Unlock()
		return nil, err
	}

	hash := TxHash(call, eta)
	if !t.queued[hash] {
		t.mu.Unlock()
		return nil, newTxError(CodeNotQueued, "transaction not queued", hash)
	}

	now := t.clock.Now()
	if now.Before(eta) {
		t.mu.Unlock()
		return nil, newTxError(CodeETANotReached, "transaction eta not reached", hash)
	}
	if now.After(eta.Add(t.grace)) {
		t.mu.Unlock()
		return nil, newTxError(CodeTransactionExpired, "transaction is stale", hash)
	}

	// Consume the entry before crossing into external code.
	delete(t.queued, hash)
	t.mu.Unlock()

	out, err := t.invoker.Invoke(ctx, call)
	if err != nil {
		t.mu.Lock()
		t.queued[hash] = true
		t.mu.Unlock()
		slog.Error("transaction execution failed",
			"tx", hash.Hex(),
			"target", call.Target.Hex(),
			"error", err,
		)
		return nil, &Error{Code: CodeExecutionFailed, Message: "target call failed", TxHash: hash, Cause: err}
	}

	slog.Info("transaction executed",
		"tx", hash.Hex(),
		"target", call.Target.Hex(),
		"eta", eta.Unix(),
	)
	return out, nil
}

// CancelTransaction removes a queued entry.
func (t *Timelock) CancelTransaction(caller common.Address, call Call, eta time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.requireAdmin(caller); err != nil {
		return err
	}

	hash := TxHash(call, eta)
	if !t.queued[hash] {
		return newTxError(CodeNotQueued, "transaction not queued", hash)
	}
	delete(t.queued, hash)

	slog.Info("transaction canceled", "tx", hash.Hex(), "target", call.Target.Hex())
	return nil
}

// IsQueued reports whether the entry identified by (call, eta) is present.
func (t *Timelock) IsQueued(call Call, eta time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queued[TxHash(call, eta)]
}

// CanExecute reports whether the entry is present and inside its
// [eta, eta+grace] execution window.
func (t *Timelock) CanExecute(call Call, eta time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.queued[TxHash(call, eta)] {
		return false
	}
	now := t.clock.Now()
	return !now.Before(eta) && !now.After(eta.Add(t.grace))
}

func (t *Timelock) requireAdmin(caller common.Address) error {
	if caller != t.admin {
		return newError(CodeNotAdmin, "caller is not the timelock admin")
	}
	return nil
}
