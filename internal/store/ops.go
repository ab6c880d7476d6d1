package store

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Operation kinds. The set is closed: Replay rejects anything else.
const (
	KindFund        = "fund"
	KindLock        = "lock"
	KindUnlock      = "unlock"
	KindPropose     = "propose"
	KindVote        = "vote"
	KindQueue       = "queue"
	KindExecute     = "execute"
	KindCancel      = "cancel"
	KindMarkExpired = "mark_expired"
)

// Operation is one journaled governance operation.
type Operation struct {
	Seq       int64
	ReceiptID string
	Kind      string
	Caller    common.Address
	Payload   json.RawMessage
	Time      time.Time
}

// Payload shapes. Token quantities are decimal base-unit strings; byte
// payloads are 0x-prefixed hex.

// FundPayload mints development tokens to the caller.
type FundPayload struct {
	Amount string `json:"amount"`
}

// LockPayload deposits tokens into governance custody.
type LockPayload struct {
	Amount string `json:"amount"`
}

// ProposePayload carries the parallel action lists plus the description.
type ProposePayload struct {
	Targets     []string `json:"targets"`
	Values      []string `json:"values"`
	Signatures  []string `json:"signatures"`
	Payloads    []string `json:"payloads"`
	Description string   `json:"description"`
}

// VotePayload casts a vote on a proposal.
type VotePayload struct {
	ProposalID uint64 `json:"proposal_id"`
	Support    bool   `json:"support"`
}

// ProposalPayload identifies a proposal for queue/cancel/mark-expired.
type ProposalPayload struct {
	ProposalID uint64 `json:"proposal_id"`
}

// ExecutePayload executes a queued proposal with the supplied value total.
type ExecutePayload struct {
	ProposalID uint64 `json:"proposal_id"`
	Value      string `json:"value"`
}
