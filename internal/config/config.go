// Package config holds the governance parameter set.
//
// Default() encodes the authoritative contract-level constants. Project
// narrative documents disagree with some of them (100,000-token threshold,
// 3-day voting period); those figures are stale and are intentionally not
// represented here.
//
// Parameters may be overridden from a CUE file (see Load); overrides are
// validated against the same constraints as the defaults.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Params is the full governance parameter set. Token quantities are in
// whole tokens; the engine converts to base units using its scale constant.
type Params struct {
	// MinimumLockTokens is the smallest lock that grants voting rights.
	MinimumLockTokens uint64

	// ProposalThresholdTokens is the lock required to submit a proposal.
	ProposalThresholdTokens uint64

	// MinLockAge is how long a lock must exist before its holder may vote
	// or propose. Top-ups do not reset the age.
	MinLockAge time.Duration

	// VotingPeriod is the length of a proposal's voting window.
	VotingPeriod time.Duration

	// TimelockDelay is the mandatory wait between queueing and execution.
	TimelockDelay time.Duration

	// GracePeriod is the window after eta during which execution stays valid.
	GracePeriod time.Duration

	// QuorumNumerator/QuorumDenominator express the supply fraction whose
	// quadratic weight a proposal must attract.
	QuorumNumerator   uint64
	QuorumDenominator uint64

	// Governor is the engine's own account: token custody and timelock admin.
	Governor common.Address

	// Excluded lists accounts barred from locking, proposing, and voting
	// (e.g. the vesting vault).
	Excluded []common.Address
}

// Default returns the authoritative parameter set.
func Default() Params {
	return Params{
		MinimumLockTokens:       100,
		ProposalThresholdTokens: 10_000,
		MinLockAge:              7 * 24 * time.Hour,
		VotingPeriod:            7 * 24 * time.Hour,
		TimelockDelay:           48 * time.Hour,
		GracePeriod:             7 * 24 * time.Hour,
		QuorumNumerator:         4,
		QuorumDenominator:       100,
		Governor:                common.HexToAddress("0x0000000000000000000000000000000000000E90"),
	}
}

// Validate checks internal consistency. Zero durations and degenerate
// quorum fractions are configuration mistakes, not runtime conditions.
func (p Params) Validate() error {
	if p.MinimumLockTokens == 0 {
		return fmt.Errorf("config: minimumLockTokens must be positive")
	}
	if p.ProposalThresholdTokens < p.MinimumLockTokens {
		return fmt.Errorf("config: proposalThresholdTokens (%d) below minimumLockTokens (%d)",
			p.ProposalThresholdTokens, p.MinimumLockTokens)
	}
	if p.MinLockAge <= 0 || p.VotingPeriod <= 0 || p.TimelockDelay <= 0 || p.GracePeriod <= 0 {
		return fmt.Errorf("config: all durations must be positive")
	}
	if p.QuorumDenominator == 0 {
		return fmt.Errorf("config: quorumDenominator must be positive")
	}
	if p.QuorumNumerator == 0 || p.QuorumNumerator > p.QuorumDenominator {
		return fmt.Errorf("config: quorum fraction %d/%d outside (0, 1]",
			p.QuorumNumerator, p.QuorumDenominator)
	}
	if p.Governor == (common.Address{}) {
		return fmt.Errorf("config: governor must not be the zero address")
	}
	for _, a := range p.Excluded {
		if a == (common.Address{}) {
			return fmt.Errorf("config: excluded list contains the zero address")
		}
		if a == p.Governor {
			return fmt.Errorf("config: governor cannot be excluded")
		}
	}
	return nil
}

// IsExcluded reports whether an account is barred from participating.
func (p Params) IsExcluded(account common.Address) bool {
	for _, a := range p.Excluded {
		if a == account {
			return true
		}
	}
	return false
}
