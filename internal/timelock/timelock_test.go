package timelock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EquorumProtocol/equorum-gov/internal/testutil"
)

var (
	admin    = common.HexToAddress("0x0000000000000000000000000000000000000AD1")
	stranger = common.HexToAddress("0x00000000000000000000000000000000000005E1")
	target   = common.HexToAddress("0x00000000000000000000000000000000000007A0")
)

const (
	testDelay = 48 * time.Hour
	testGrace = 7 * 24 * time.Hour
)

func newTimelock(t *testing.T) (*Timelock, *Router, *testutil.ManualClock) {
	t.Helper()
	clock := testutil.NewManualClock()
	router := NewRouter()
	router.Register(target, func(ctx context.Context, value *uint256.Int, input []byte) ([]byte, error) {
		return []byte("output"), nil
	})
	tl, err := New(admin, testDelay, testGrace, clock, router)
	require.NoError(t, err)
	return tl, router, clock
}

func testCall() Call {
	return Call{Target: target, Signature: "release(address,uint256)", Payload: []byte{0x01, 0x02}}
}

func TestNewValidation(t *testing.T) {
	_, err := New(common.Address{}, testDelay, testGrace, nil, nil)
	assert.True(t, IsCode(err, CodeZeroAddress))

	_, err = New(admin, 0, testGrace, nil, nil)
	assert.Error(t, err)

	_, err = New(admin, testDelay, 0, nil, nil)
	assert.Error(t, err)
}

func TestQueueTransaction(t *testing.T) {
	tl, _, clock := newTimelock(t)
	eta := clock.Now().Add(testDelay)

	t.Run("admin only", func(t *testing.T) {
		_, err := tl.QueueTransaction(stranger, testCall(), eta)
		assert.True(t, IsCode(err, CodeNotAdmin))
	})

	t.Run("eta must satisfy the delay", func(t *testing.T) {
		_, err := tl.QueueTransaction(admin, testCall(), eta.Add(-time.Second))
		assert.True(t, IsCode(err, CodeETATooSoon))
	})

	t.Run("eta exactly at the delay boundary", func(t *testing.T) {
		hash, err := tl.QueueTransaction(admin, testCall(), eta)
		require.NoError(t, err)
		assert.Equal(t, TxHash(testCall(), eta), hash)
		assert.True(t, tl.IsQueued(testCall(), eta))
	})

	t.Run("duplicate hash", func(t *testing.T) {
		_, err := tl.QueueTransaction(admin, testCall(), eta)
		assert.True(t, IsCode(err, CodeAlreadyQueued))
	})
}

func TestExecuteTransactionWindow(t *testing.T) {
	ctx := context.Background()
	tl, _, clock := newTimelock(t)
	eta := clock.Now().Add(testDelay)
	_, err := tl.QueueTransaction(admin, testCall(), eta)
	require.NoError(t, err)

	t.Run("not queued", func(t *testing.T) {
		other := testCall()
		other.Payload = []byte{0xff}
		_, err := tl.ExecuteTransaction(ctx, admin, other, eta)
		assert.True(t, IsCode(err, CodeNotQueued))
	})

	t.Run("before the eta", func(t *testing.T) {
		_, err := tl.ExecuteTransaction(ctx, admin, testCall(), eta)
		assert.True(t, IsCode(err, CodeETANotReached))
	})

	t.Run("at the eta", func(t *testing.T) {
		clock.Set(eta)
		assert.True(t, tl.CanExecute(testCall(), eta))
		out, err := tl.ExecuteTransaction(ctx, admin, testCall(), eta)
		require.NoError(t, err)
		assert.Equal(t, []byte("output"), out)
	})

	t.Run("entry is consumed", func(t *testing.T) {
		assert.False(t, tl.IsQueued(testCall(), eta))
		_, err := tl.ExecuteTransaction(ctx, admin, testCall(), eta)
		assert.True(t, IsCode(err, CodeNotQueued))
	})
}

func TestExecuteTransactionExpiry(t *testing.T) {
	ctx := context.Background()
	tl, _, clock := newTimelock(t)
	eta := clock.Now().Add(testDelay)
	_, err := tl.QueueTransaction(admin, testCall(), eta)
	require.NoError(t, err)

	// Exactly eta+grace is the last valid instant.
	clock.Set(eta.Add(testGrace))
	assert.True(t, tl.CanExecute(testCall(), eta))

	clock.Set(eta.Add(testGrace).Add(time.Second))
	assert.False(t, tl.CanExecute(testCall(), eta))
	_, err = tl.ExecuteTransaction(ctx, admin, testCall(), eta)
	assert.True(t, IsCode(err, CodeTransactionExpired))

	// A stale entry stays queued until canceled.
	assert.True(t, tl.IsQueued(testCall(), eta))
}

func TestExecuteTransactionFailureRestoresEntry(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewManualClock()
	router := NewRouter()

	fail := true
	router.Register(target, func(ctx context.Context, value *uint256.Int, input []byte) ([]byte, error) {
		if fail {
			return nil, errors.New("target reverted")
		}
		return []byte("second try"), nil
	})

	tl, err := New(admin, testDelay, testGrace, clock, router)
	require.NoError(t, err)

	eta := clock.Now().Add(testDelay)
	_, err = tl.QueueTransaction(admin, testCall(), eta)
	require.NoError(t, err)
	clock.Set(eta)

	_, err = tl.ExecuteTransaction(ctx, admin, testCall(), eta)
	require.True(t, IsCode(err, CodeExecutionFailed))
	assert.True(t, tl.IsQueued(testCall(), eta), "failed execution restores the entry")

	var te *Error
	require.True(t, errors.As(err, &te))
	assert.EqualError(t, te.Cause, "target reverted")

	fail = false
	out, err := tl.ExecuteTransaction(ctx, admin, testCall(), eta)
	require.NoError(t, err)
	assert.Equal(t, []byte("second try"), out)
}

func TestCancelTransaction(t *testing.T) {
	tl, _, clock := newTimelock(t)
	eta := clock.Now().Add(testDelay)
	_, err := tl.QueueTransaction(admin, testCall(), eta)
	require.NoError(t, err)

	err = tl.CancelTransaction(stranger, testCall(), eta)
	assert.True(t, IsCode(err, CodeNotAdmin))

	require.NoError(t, tl.CancelTransaction(admin, testCall(), eta))
	assert.False(t, tl.IsQueued(testCall(), eta))

	err = tl.CancelTransaction(admin, testCall(), eta)
	assert.True(t, IsCode(err, CodeNotQueued))
}

func TestUnregisteredTargetFailsExecution(t *testing.T) {
	ctx := context.Background()
	tl, _, clock := newTimelock(t)

	call := Call{Target: common.HexToAddress("0x00000000000000000000000000000000000009F9")}
	eta := clock.Now().Add(testDelay)
	_, err := tl.QueueTransaction(admin, call, eta)
	require.NoError(t, err)

	clock.Set(eta)
	_, err = tl.ExecuteTransaction(ctx, admin, call, eta)
	assert.True(t, IsCode(err, CodeExecutionFailed))
	assert.True(t, tl.IsQueued(call, eta))
}

func TestCallInput(t *testing.T) {
	// With a signature the input carries the 4-byte selector.
	call := testCall()
	input := call.Input()
	require.Len(t, input, 6)
	assert.Equal(t, []byte{0x01, 0x02}, input[4:])

	// Without a signature the payload passes through untouched.
	raw := Call{Target: target, Payload: []byte{0xaa, 0xbb}}
	assert.Equal(t, []byte{0xaa, 0xbb}, raw.Input())
}

func TestTxHashDiscriminates(t *testing.T) {
	eta := testutil.BaseTime.Add(testDelay)
	base := TxHash(testCall(), eta)

	assert.Equal(t, base, TxHash(testCall(), eta), "hashing is deterministic")

	etaShift := TxHash(testCall(), eta.Add(time.Second))
	assert.NotEqual(t, base, etaShift)

	sig := testCall()
	sig.Signature = "release(uint256)"
	assert.NotEqual(t, base, TxHash(sig, eta))

	val := testCall()
	val.Value = uint256.NewInt(1)
	assert.NotEqual(t, base, TxHash(val, eta))

	pay := testCall()
	pay.Payload = []byte{0x01, 0x03}
	assert.NotEqual(t, base, TxHash(pay, eta))
}
