package gov

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EquorumProtocol/equorum-gov/internal/testutil"
)

var (
	acctA = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	acctB = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func TestLedgerCreditStampsFirstLockOnly(t *testing.T) {
	l := NewLockLedger()
	t0 := testutil.BaseTime
	t1 := t0.Add(24 * time.Hour)

	l.credit(acctA, WholeTokens(100), t0)
	rec, ok := l.Get(acctA)
	require.True(t, ok)
	assert.Equal(t, t0, rec.LockTime)
	assert.Equal(t, WholeTokens(100), rec.Amount)

	// A top-up grows the amount but keeps the original stamp.
	l.credit(acctA, WholeTokens(50), t1)
	rec, ok = l.Get(acctA)
	require.True(t, ok)
	assert.Equal(t, t0, rec.LockTime)
	assert.Equal(t, WholeTokens(150), rec.Amount)
	assert.Equal(t, WholeTokens(150), l.TotalLocked())
}

func TestLedgerUncreditRollsBack(t *testing.T) {
	l := NewLockLedger()
	t0 := testutil.BaseTime

	l.credit(acctA, WholeTokens(100), t0)
	l.uncredit(acctA, WholeTokens(100), true)
	_, ok := l.Get(acctA)
	assert.False(t, ok)
	assert.True(t, l.TotalLocked().IsZero())

	// Rolling back a top-up leaves the base lock untouched.
	l.credit(acctA, WholeTokens(100), t0)
	l.credit(acctA, WholeTokens(40), t0.Add(time.Hour))
	l.uncredit(acctA, WholeTokens(40), false)
	rec, ok := l.Get(acctA)
	require.True(t, ok)
	assert.Equal(t, WholeTokens(100), rec.Amount)
	assert.Equal(t, t0, rec.LockTime)
	assert.Equal(t, WholeTokens(100), l.TotalLocked())
}

func TestLedgerClearAndRestore(t *testing.T) {
	l := NewLockLedger()
	t0 := testutil.BaseTime
	l.credit(acctA, WholeTokens(250), t0)

	amount, lockTime := l.clear(acctA)
	assert.Equal(t, WholeTokens(250), amount)
	assert.Equal(t, t0, lockTime)
	_, ok := l.Get(acctA)
	assert.False(t, ok)
	assert.True(t, l.TotalLocked().IsZero())

	l.restore(acctA, amount, lockTime)
	rec, ok := l.Get(acctA)
	require.True(t, ok)
	assert.Equal(t, WholeTokens(250), rec.Amount)
	assert.Equal(t, t0, rec.LockTime)
	assert.Equal(t, WholeTokens(250), l.TotalLocked())
}

func TestLedgerClearUnknownAccount(t *testing.T) {
	l := NewLockLedger()
	amount, lockTime := l.clear(acctB)
	assert.True(t, amount.IsZero())
	assert.True(t, lockTime.IsZero())
}

func TestLedgerUnlockWatermarkIsMonotonic(t *testing.T) {
	l := NewLockLedger()
	early := testutil.BaseTime.Add(24 * time.Hour)
	late := testutil.BaseTime.Add(72 * time.Hour)

	assert.True(t, l.UnlockAfter(acctA).IsZero())

	l.raiseUnlockAfter(acctA, late)
	assert.Equal(t, late, l.UnlockAfter(acctA))

	// A later vote on an earlier-ending proposal must not lower it.
	l.raiseUnlockAfter(acctA, early)
	assert.Equal(t, late, l.UnlockAfter(acctA))
}

func TestLedgerGetReturnsCopy(t *testing.T) {
	l := NewLockLedger()
	l.credit(acctA, WholeTokens(10), testutil.BaseTime)

	rec, _ := l.Get(acctA)
	rec.Amount.Clear()

	rec2, _ := l.Get(acctA)
	assert.Equal(t, WholeTokens(10), rec2.Amount)
}
