package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenariosGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no scenario files found")

	for _, file := range files {
		scenario, err := LoadScenario(file)
		require.NoError(t, err, "load %s", file)

		t.Run(scenario.Name, func(t *testing.T) {
			RunWithGolden(t, scenario)
		})
	}
}

func TestRunReportsUnexpectedSuccess(t *testing.T) {
	scenario := &Scenario{
		Name:        "unexpected-success",
		Description: "a step that expects a rejection but succeeds must fail the scenario",
		Genesis:     map[string]string{"alice": "400000"},
		Steps: []Step{
			{Op: "lock", Actor: "alice", Amount: "400000", ExpectError: "BELOW_MINIMUM_LOCK"},
		},
		Assertions: []Assertion{
			{Type: AssertTotalLocked, Amount: "400000"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "expected BELOW_MINIMUM_LOCK")
}

func TestRunReportsAssertionFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "assertion-failure",
		Description: "a wrong total_locked expectation must fail the scenario",
		Genesis:     map[string]string{"alice": "400000"},
		Steps: []Step{
			{Op: "lock", Actor: "alice", Amount: "400000"},
		},
		Assertions: []Assertion{
			{Type: AssertTotalLocked, Amount: "123"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "total_locked")
}

func TestAddrIsDeterministic(t *testing.T) {
	assert.Equal(t, Addr("alice"), Addr("alice"))
	assert.NotEqual(t, Addr("alice"), Addr("bob"))
	assert.NotEqual(t, Addr("alice"), Addr("alic"))
}
