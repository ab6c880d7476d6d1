package gov

import (
	"errors"
	"fmt"
)

// Class groups failure kinds by recovery policy (see package doc):
// admission, temporal and integrity errors are caller mistakes and are
// never retried by the system; external errors surface the underlying
// failure with all other state untouched, so the caller may safely retry
// the exact same operation.
type Class string

const (
	// ClassAdmission: the caller is not entitled to act.
	ClassAdmission Class = "admission"
	// ClassTemporal: the action was attempted outside its valid time window.
	ClassTemporal Class = "temporal"
	// ClassIntegrity: malformed input.
	ClassIntegrity Class = "integrity"
	// ClassExternal: a token transfer or downstream call failed.
	ClassExternal Class = "external"
)

// Code identifies a specific rejection condition.
type Code string

const (
	CodeExcludedAccount        Code = "EXCLUDED_ACCOUNT"
	CodeBelowMinimumLock       Code = "BELOW_MINIMUM_LOCK"
	CodeNoLockFound            Code = "NO_LOCK_FOUND"
	CodeLockStillActive        Code = "LOCK_STILL_ACTIVE"
	CodeBelowProposalThreshold Code = "BELOW_PROPOSAL_THRESHOLD"
	CodeLockTooNew             Code = "LOCK_TOO_NEW"
	CodeNoActions              Code = "NO_ACTIONS"
	CodeArrayLengthMismatch    Code = "ARRAY_LENGTH_MISMATCH"
	CodeEmptyDescription       Code = "EMPTY_DESCRIPTION"
	CodeInvalidProposal        Code = "INVALID_PROPOSAL"
	CodeVotingClosed           Code = "VOTING_CLOSED"
	CodeAlreadyVoted           Code = "ALREADY_VOTED"
	CodeInsufficientLock       Code = "INSUFFICIENT_LOCK"
	CodeNoVotingPower          Code = "NO_VOTING_POWER"
	CodeProposalNotSucceeded   Code = "PROPOSAL_NOT_SUCCEEDED"
	CodeAlreadyQueued          Code = "ALREADY_QUEUED"
	CodeProposalNotQueued      Code = "PROPOSAL_NOT_QUEUED"
	CodeOnlyProposerCanCancel  Code = "ONLY_PROPOSER_CAN_CANCEL"
	CodeCannotCancelExecuted   Code = "CANNOT_CANCEL_EXECUTED"
	CodeInvalidValue           Code = "INVALID_VALUE"
	CodeNotExpired             Code = "NOT_EXPIRED"
	CodeTransferFailed         Code = "TRANSFER_FAILED"
)

// Error is a governance rejection: a whole-operation abort with a specific
// named condition. No partial state is ever committed alongside one.
type Error struct {
	Code    Code
	Class   Class
	Message string

	// ProposalID is set when the failure concerns a specific proposal.
	ProposalID uint64

	// Cause carries the underlying failure for ClassExternal errors.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	case e.ProposalID != 0:
		return fmt.Sprintf("%s: %s (proposal=%d)", e.Code, e.Message, e.ProposalID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Cause }

// IsCode reports whether err is (or wraps) a governance Error with the
// given code.
func IsCode(err error, code Code) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// ErrCode extracts the governance code from err, or "" if err is not a
// governance Error.
func ErrCode(err error) Code {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

func admissionError(code Code, msg string) *Error {
	return &Error{Code: code, Class: ClassAdmission, Message: msg}
}

func temporalError(code Code, msg string) *Error {
	return &Error{Code: code, Class: ClassTemporal, Message: msg}
}

func integrityError(code Code, msg string) *Error {
	return &Error{Code: code, Class: ClassIntegrity, Message: msg}
}

func externalError(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Class: ClassExternal, Message: msg, Cause: cause}
}

func proposalError(code Code, class Class, msg string, id uint64) *Error {
	return &Error{Code: code, Class: class, Message: msg, ProposalID: id}
}
