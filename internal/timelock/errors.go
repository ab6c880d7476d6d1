package timelock

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Code categorizes timelock failures.
type Code string

const (
	// CodeNotAdmin indicates the caller does not hold the admin role.
	CodeNotAdmin Code = "NOT_ADMIN"

	// CodeNotPendingAdmin indicates the caller is not the nominated candidate.
	CodeNotPendingAdmin Code = "NOT_PENDING_ADMIN"

	// CodeZeroAddress indicates an admin transfer to the zero address.
	CodeZeroAddress Code = "ZERO_ADDRESS"

	// CodeETATooSoon indicates a queue attempt with eta inside the delay window.
	CodeETATooSoon Code = "ETA_TOO_SOON"

	// CodeAlreadyQueued indicates the content hash is already present.
	CodeAlreadyQueued Code = "ALREADY_QUEUED"

	// CodeNotQueued indicates the content hash is absent.
	CodeNotQueued Code = "NOT_QUEUED"

	// CodeETANotReached indicates an execute attempt before eta.
	CodeETANotReached Code = "ETA_NOT_REACHED"

	// CodeTransactionExpired indicates an execute attempt after eta+grace.
	CodeTransactionExpired Code = "TRANSACTION_EXPIRED"

	// CodeExecutionFailed indicates the target call itself failed.
	CodeExecutionFailed Code = "EXECUTION_FAILED"
)

// Error is a timelock failure with a machine-readable code. The content
// hash is included when the failure concerns a specific entry.
type Error struct {
	Code    Code
	Message string
	TxHash  common.Hash
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	if e.TxHash != (common.Hash{}) {
		return fmt.Sprintf("%s: %s (tx=%s)", e.Code, e.Message, e.TxHash.Hex())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }

// IsCode reports whether err is (or wraps) a timelock Error with the given code.
func IsCode(err error, code Code) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func newTxError(code Code, msg string, hash common.Hash) *Error {
	return &Error{Code: code, Message: msg, TxHash: hash}
}
