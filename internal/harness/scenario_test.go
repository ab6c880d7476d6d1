package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "lifecycle_success.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "lifecycle_success", scenario.Name)
	assert.Len(t, scenario.Genesis, 3)
	assert.NotEmpty(t, scenario.Steps)
	assert.NotEmpty(t, scenario.Assertions)
}

func TestLoadScenarioRejectsUnknownField(t *testing.T) {
	path := writeScenarioFile(t, `
name: typo
description: an assertion field typo must not silently validate nothing
genesis:
  alice: "1000"
steps:
  - op: lock
    actor: alice
    amount: "1000"
assertion:
  - type: total_locked
    amount: "1000"
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse scenario YAML")
}

func TestLoadScenarioValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: d
steps:
  - advance: 1h
assertions:
  - type: total_locked
    amount: "0"
`,
			wantErr: "name is required",
		},
		{
			name: "advance and op together",
			content: `
name: s
description: d
steps:
  - advance: 1h
    op: lock
    actor: alice
    amount: "100"
assertions:
  - type: total_locked
    amount: "0"
`,
			wantErr: "exactly one of advance and op",
		},
		{
			name: "unknown op",
			content: `
name: s
description: d
steps:
  - op: stake
    actor: alice
assertions:
  - type: total_locked
    amount: "0"
`,
			wantErr: "unknown op",
		},
		{
			name: "bad advance duration",
			content: `
name: s
description: d
steps:
  - advance: soon
assertions:
  - type: total_locked
    amount: "0"
`,
			wantErr: "bad advance duration",
		},
		{
			name: "propose without actions",
			content: `
name: s
description: d
steps:
  - op: propose
    actor: alice
    description: p
assertions:
  - type: total_locked
    amount: "0"
`,
			wantErr: "propose requires",
		},
		{
			name: "unknown assertion type",
			content: `
name: s
description: d
steps:
  - advance: 1h
assertions:
  - type: balance
    amount: "0"
`,
			wantErr: "unknown assertion type",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenarioFile(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
