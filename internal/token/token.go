// Package token defines the fungible-token ledger boundary consumed by the
// governance engine, plus an in-memory implementation for tests and the
// development CLI.
//
// The governance engine is the ledger's only privileged caller. It treats any
// failed transfer as a whole-operation abort; the ledger never has to know
// anything about locks or proposals.
package token

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Sentinel errors returned by ledger implementations.
var (
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	ErrZeroAddress         = errors.New("token: zero address")
	ErrNilAmount           = errors.New("token: nil amount")
)

// Ledger is the external token contract surface the governance engine
// depends on. Implementations must be safe for serialized use; the engine
// never calls the ledger concurrently.
type Ledger interface {
	// TransferFrom moves amount from one account to another on behalf of
	// the engine. A non-nil error aborts the calling operation.
	TransferFrom(from, to common.Address, amount *uint256.Int) error

	// Transfer moves amount out of the engine's custody account.
	Transfer(from, to common.Address, amount *uint256.Int) error

	// BalanceOf reports the current balance of an account.
	BalanceOf(account common.Address) *uint256.Int

	// TotalSupply reports the total minted supply. The quadratic quorum is
	// derived from this figure.
	TotalSupply() *uint256.Int
}
