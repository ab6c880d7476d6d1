package gov

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/EquorumProtocol/equorum-gov/internal/testutil"
)

const testGrace = 7 * 24 * time.Hour

// stateProposal builds a proposal whose voting window is
// [BaseTime, BaseTime+7d) with the given tally.
func stateProposal(forVotes, againstVotes uint64) *Proposal {
	return &Proposal{
		ID:           1,
		StartTime:    testutil.BaseTime,
		EndTime:      testutil.BaseTime.Add(7 * 24 * time.Hour),
		ForVotes:     uint256.NewInt(forVotes),
		AgainstVotes: uint256.NewInt(againstVotes),
	}
}

func TestResolveStateLifecycle(t *testing.T) {
	quorum := uint256.NewInt(200)
	start := testutil.BaseTime
	end := start.Add(7 * 24 * time.Hour)

	t.Run("pending before window", func(t *testing.T) {
		p := stateProposal(0, 0)
		got := resolveState(p, start.Add(-time.Second), testGrace, quorum)
		assert.Equal(t, StatePending, got)
	})

	t.Run("active inside window", func(t *testing.T) {
		p := stateProposal(0, 0)
		assert.Equal(t, StateActive, resolveState(p, start, testGrace, quorum))
		assert.Equal(t, StateActive, resolveState(p, end.Add(-time.Second), testGrace, quorum))
	})

	t.Run("defeated below quorum", func(t *testing.T) {
		p := stateProposal(199, 0)
		assert.Equal(t, StateDefeated, resolveState(p, end, testGrace, quorum))
	})

	t.Run("quorum counts both directions", func(t *testing.T) {
		p := stateProposal(150, 100)
		assert.Equal(t, StateSucceeded, resolveState(p, end, testGrace, quorum))
	})

	t.Run("defeated on tie", func(t *testing.T) {
		p := stateProposal(150, 150)
		assert.Equal(t, StateDefeated, resolveState(p, end, testGrace, quorum))
	})

	t.Run("succeeded", func(t *testing.T) {
		p := stateProposal(300, 100)
		assert.Equal(t, StateSucceeded, resolveState(p, end, testGrace, quorum))
	})
}

func TestResolveStateQueuedWindow(t *testing.T) {
	quorum := uint256.NewInt(1)
	eta := testutil.BaseTime.Add(9 * 24 * time.Hour)

	p := stateProposal(300, 0)
	p.Queued = true
	p.ETA = eta

	now := eta.Add(testGrace)
	assert.Equal(t, StateQueued, resolveState(p, now, testGrace, quorum),
		"exactly eta+grace is still executable")
	assert.Equal(t, StateExpired, resolveState(p, now.Add(time.Second), testGrace, quorum))
}

func TestResolveStateExpiredFlagIsSticky(t *testing.T) {
	quorum := uint256.NewInt(1)

	// MarkExpired clears Queued but sets Expired; the proposal must not
	// fall through to a vote-derived state.
	p := stateProposal(300, 0)
	p.Expired = true
	got := resolveState(p, testutil.BaseTime.Add(30*24*time.Hour), testGrace, quorum)
	assert.Equal(t, StateExpired, got)
}

func TestResolveStatePriority(t *testing.T) {
	quorum := uint256.NewInt(1)
	now := testutil.BaseTime.Add(30 * 24 * time.Hour)

	t.Run("canceled wins over everything", func(t *testing.T) {
		p := stateProposal(300, 0)
		p.Canceled = true
		p.Executed = true
		p.Queued = true
		assert.Equal(t, StateCanceled, resolveState(p, now, testGrace, quorum))
	})

	t.Run("executed wins over queued and expiry", func(t *testing.T) {
		p := stateProposal(300, 0)
		p.Executed = true
		p.Queued = true
		p.ETA = testutil.BaseTime
		assert.Equal(t, StateExecuted, resolveState(p, now, testGrace, quorum))
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Pending", StatePending.String())
	assert.Equal(t, "Active", StateActive.String())
	assert.Equal(t, "Canceled", StateCanceled.String())
	assert.Equal(t, "Defeated", StateDefeated.String())
	assert.Equal(t, "Succeeded", StateSucceeded.String())
	assert.Equal(t, "Queued", StateQueued.String())
	assert.Equal(t, "Expired", StateExpired.String())
	assert.Equal(t, "Executed", StateExecuted.String())
	assert.Equal(t, "Unknown", ProposalState(99).String())
}

func TestStateTerminal(t *testing.T) {
	assert.True(t, StateExecuted.Terminal())
	assert.True(t, StateCanceled.Terminal())
	assert.True(t, StateExpired.Terminal())
	assert.False(t, StateActive.Terminal())
	assert.False(t, StateSucceeded.Terminal())
	assert.False(t, StateQueued.Terminal())
}
