package token

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// MemoryLedger is an in-memory Ledger used by tests, the conformance
// harness, and the development CLI.
//
// It deliberately omits approval bookkeeping: the governance engine is its
// single privileged caller, and allowance semantics belong to the real token
// contract this type stands in for.
type MemoryLedger struct {
	balances map[common.Address]*uint256.Int
	supply   *uint256.Int
}

// NewMemoryLedger creates an empty ledger with zero supply.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[common.Address]*uint256.Int),
		supply:   new(uint256.Int),
	}
}

// Mint credits an account and grows total supply.
func (l *MemoryLedger) Mint(account common.Address, amount *uint256.Int) error {
	if account == (common.Address{}) {
		return ErrZeroAddress
	}
	if amount == nil {
		return ErrNilAmount
	}
	l.credit(account, amount)
	l.supply = new(uint256.Int).Add(l.supply, amount)
	return nil
}

// TransferFrom implements Ledger.
func (l *MemoryLedger) TransferFrom(from, to common.Address, amount *uint256.Int) error {
	return l.move(from, to, amount)
}

// Transfer implements Ledger.
func (l *MemoryLedger) Transfer(from, to common.Address, amount *uint256.Int) error {
	return l.move(from, to, amount)
}

// BalanceOf implements Ledger. Returns a copy; callers cannot mutate ledger
// state through it.
func (l *MemoryLedger) BalanceOf(account common.Address) *uint256.Int {
	if b, ok := l.balances[account]; ok {
		return b.Clone()
	}
	return new(uint256.Int)
}

// TotalSupply implements Ledger.
func (l *MemoryLedger) TotalSupply() *uint256.Int {
	return l.supply.Clone()
}

func (l *MemoryLedger) move(from, to common.Address, amount *uint256.Int) error {
	if from == (common.Address{}) || to == (common.Address{}) {
		return ErrZeroAddress
	}
	if amount == nil {
		return ErrNilAmount
	}
	bal, ok := l.balances[from]
	if !ok || bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)
	l.credit(to, amount)
	return nil
}

func (l *MemoryLedger) credit(account common.Address, amount *uint256.Int) {
	if b, ok := l.balances[account]; ok {
		b.Add(b, amount)
		return
	}
	l.balances[account] = amount.Clone()
}
