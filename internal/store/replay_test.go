package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EquorumProtocol/equorum-gov/internal/config"
	"github.com/EquorumProtocol/equorum-gov/internal/gov"
	"github.com/EquorumProtocol/equorum-gov/internal/testutil"
	"github.com/EquorumProtocol/equorum-gov/internal/timelock"
	"github.com/EquorumProtocol/equorum-gov/internal/token"
)

var (
	replayVoter  = common.HexToAddress("0x0000000000000000000000000000000000000A11")
	replayTarget = common.HexToAddress("0x00000000000000000000000000000000000007A0")
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func newReplayEngine(t *testing.T, clk *ReplayClock) (*gov.Engine, *token.MemoryLedger) {
	t.Helper()
	params := config.Default()

	ledger := token.NewMemoryLedger()
	router := timelock.NewRouter()
	router.Register(replayTarget, func(ctx context.Context, value *uint256.Int, input []byte) ([]byte, error) {
		return []byte("done"), nil
	})

	tl, err := timelock.New(params.Governor, params.TimelockDelay, params.GracePeriod, clk, router)
	require.NoError(t, err)

	eng, err := gov.NewEngine(params, ledger, tl, clk, &gov.SequenceGenerator{})
	require.NoError(t, err)
	return eng, ledger
}

// lifecycleOps journals a full fund, lock, propose, vote, queue, execute
// run with timestamps that satisfy every temporal rule on replay.
func lifecycleOps(t *testing.T) []Operation {
	t.Helper()
	const amount = "400000000000000000000000"

	funded := testutil.BaseTime
	proposed := funded.Add(7 * 24 * time.Hour)
	voted := proposed.Add(time.Hour)
	closed := proposed.Add(7 * 24 * time.Hour)
	executed := closed.Add(48 * time.Hour)

	return []Operation{
		{Seq: 1, ReceiptID: "r-1", Kind: KindFund, Caller: replayVoter, Time: funded,
			Payload: mustJSON(t, FundPayload{Amount: amount})},
		{Seq: 2, ReceiptID: "r-2", Kind: KindLock, Caller: replayVoter, Time: funded,
			Payload: mustJSON(t, LockPayload{Amount: amount})},
		{Seq: 3, ReceiptID: "r-3", Kind: KindPropose, Caller: replayVoter, Time: proposed,
			Payload: mustJSON(t, ProposePayload{
				Targets:     []string{replayTarget.Hex()},
				Values:      []string{"0"},
				Signatures:  []string{"release()"},
				Payloads:    []string{"0x"},
				Description: "release the reserve",
			})},
		{Seq: 4, ReceiptID: "r-4", Kind: KindVote, Caller: replayVoter, Time: voted,
			Payload: mustJSON(t, VotePayload{ProposalID: 1, Support: true})},
		{Seq: 5, ReceiptID: "r-5", Kind: KindQueue, Caller: replayVoter, Time: closed,
			Payload: mustJSON(t, ProposalPayload{ProposalID: 1})},
		{Seq: 6, ReceiptID: "r-6", Kind: KindExecute, Caller: replayVoter, Time: executed,
			Payload: mustJSON(t, ExecutePayload{ProposalID: 1, Value: "0"})},
	}
}

func TestReplayRebuildsLifecycle(t *testing.T) {
	clk := NewReplayClock()
	eng, ledger := newReplayEngine(t, clk)

	require.NoError(t, Replay(context.Background(), lifecycleOps(t), eng, ledger, clk))
	clk.GoLive()

	state, err := eng.State(1)
	require.NoError(t, err)
	assert.Equal(t, gov.StateExecuted, state)

	p, err := eng.GetProposal(1)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(632), p.ForVotes)
	assert.True(t, p.AgainstVotes.IsZero())

	weight, eligible := eng.GetVotingPower(replayVoter)
	assert.Equal(t, uint256.NewInt(632), weight)
	assert.True(t, eligible)

	locked := uint256.MustFromDecimal("400000000000000000000000")
	assert.Equal(t, locked, eng.TotalLocked())
}

func TestReplaySurfacesRejections(t *testing.T) {
	clk := NewReplayClock()
	eng, ledger := newReplayEngine(t, clk)

	// A lock without a prior fund cannot have been journaled; the replay
	// reports the corrupt record instead of skipping it.
	ops := lifecycleOps(t)[1:2]
	err := Replay(context.Background(), ops, eng, ledger, clk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replay seq 2 (lock)")
}

func TestReplayRejectsUnknownKind(t *testing.T) {
	clk := NewReplayClock()
	eng, ledger := newReplayEngine(t, clk)

	ops := []Operation{{Seq: 1, ReceiptID: "r-1", Kind: "drain", Time: testutil.BaseTime}}
	err := Replay(context.Background(), ops, eng, ledger, clk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown operation kind "drain"`)
}

func TestReplayRejectsMalformedPayload(t *testing.T) {
	clk := NewReplayClock()
	eng, ledger := newReplayEngine(t, clk)

	ops := []Operation{{
		Seq:       1,
		ReceiptID: "r-1",
		Kind:      KindLock,
		Caller:    replayVoter,
		Payload:   json.RawMessage(`{"amount":`),
		Time:      testutil.BaseTime,
	}}
	err := Replay(context.Background(), ops, eng, ledger, clk)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replay seq 1 (lock)")
}

func TestReplayClock(t *testing.T) {
	clk := NewReplayClock()

	clk.Pin(testutil.BaseTime)
	assert.Equal(t, testutil.BaseTime, clk.Now())

	later := testutil.BaseTime.Add(time.Hour)
	clk.Pin(later)
	assert.Equal(t, later, clk.Now())

	clk.GoLive()
	assert.WithinDuration(t, time.Now(), clk.Now(), time.Minute)
}
