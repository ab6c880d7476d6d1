package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccount = "0x00000000000000000000000000000000000000A1"

// run executes one CLI invocation against the journal at dbPath. Each call
// builds a fresh command tree, the way a real process would.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--db", dbPath, "--format", "json"))
	err := cmd.Execute()
	return out.String(), err
}

func decodeResponse(t *testing.T, output string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	return resp
}

func TestFundLockPowerFlow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	out, err := run(t, db, "fund", "--to", testAccount, "--amount", "400000")
	require.NoError(t, err, out)
	assert.Equal(t, "ok", decodeResponse(t, out).Status)

	out, err = run(t, db, "lock", "--from", testAccount, "--amount", "400000")
	require.NoError(t, err, out)
	assert.Equal(t, "ok", decodeResponse(t, out).Status)

	// The next invocation reconstructs the lock from the journal.
	out, err = run(t, db, "power", "--account", testAccount)
	require.NoError(t, err, out)
	resp := decodeResponse(t, out)
	require.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "632", data["weight"])
	assert.Equal(t, false, data["eligible"], "fresh lock has not met the minimum age")
	assert.Equal(t, "400000000000000000000000", data["locked"])
	assert.Equal(t, "0", data["balance"])
}

func TestLockRejectionReportsEngineCode(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")

	out, err := run(t, db, "fund", "--to", testAccount, "--amount", "50")
	require.NoError(t, err, out)

	out, err = run(t, db, "lock", "--from", testAccount, "--amount", "50")
	require.Error(t, err)
	assert.Equal(t, ExitRejected, GetExitCode(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BELOW_MINIMUM_LOCK", resp.Error.Code)

	// The rejected lock was never journaled.
	out, err = run(t, db, "power", "--account", testAccount)
	require.NoError(t, err, out)
	data := decodeResponse(t, out).Data.(map[string]interface{})
	assert.Equal(t, "0", data["locked"])
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"params", "--format", "xml"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestBadAddressIsCommandError(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")
	_, err := run(t, db, "fund", "--to", "not-an-address", "--amount", "100")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(testAccount)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testAccount), addr)

	_, err = ParseAddress("0x123")
	assert.Error(t, err)
	_, err = ParseAddress("bogus")
	assert.Error(t, err)
}

func TestParseWholeTokens(t *testing.T) {
	amount, err := ParseWholeTokens("400000")
	require.NoError(t, err)
	assert.Equal(t, uint256.MustFromDecimal("400000000000000000000000"), amount)

	_, err = ParseWholeTokens("12.5")
	assert.Error(t, err)
	_, err = ParseWholeTokens("")
	assert.Error(t, err)

	// Max uint256 worth of whole tokens cannot fit in base units.
	max := new(uint256.Int).Not(new(uint256.Int))
	_, err = ParseWholeTokens(max.Dec())
	assert.Error(t, err)
}

func TestFormatTokens(t *testing.T) {
	assert.Equal(t, "1", FormatTokens(uint256.MustFromDecimal("1000000000000000000")))
	assert.Equal(t, "1,050,000", FormatTokens(uint256.MustFromDecimal("1050000000000000000000000")))
	assert.Equal(t, "0", FormatTokens(uint256.NewInt(999)))

	assert.Equal(t, "1,223", FormatWeight(uint256.NewInt(1223)))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitRejected, GetExitCode(assert.AnError))
}
