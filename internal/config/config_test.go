package config

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	vault := common.HexToAddress("0x000000000000000000000000000000000000Fa17")

	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr string
	}{
		{
			name:    "zero minimum lock",
			mutate:  func(p *Params) { p.MinimumLockTokens = 0 },
			wantErr: "minimumLockTokens",
		},
		{
			name:    "threshold below minimum lock",
			mutate:  func(p *Params) { p.ProposalThresholdTokens = 99 },
			wantErr: "proposalThresholdTokens",
		},
		{
			name:    "zero voting period",
			mutate:  func(p *Params) { p.VotingPeriod = 0 },
			wantErr: "durations",
		},
		{
			name:    "negative grace period",
			mutate:  func(p *Params) { p.GracePeriod = -1 },
			wantErr: "durations",
		},
		{
			name:    "zero quorum denominator",
			mutate:  func(p *Params) { p.QuorumDenominator = 0 },
			wantErr: "quorumDenominator",
		},
		{
			name:    "zero quorum numerator",
			mutate:  func(p *Params) { p.QuorumNumerator = 0 },
			wantErr: "quorum fraction",
		},
		{
			name: "quorum fraction above one",
			mutate: func(p *Params) {
				p.QuorumNumerator = 101
				p.QuorumDenominator = 100
			},
			wantErr: "quorum fraction",
		},
		{
			name:    "zero governor",
			mutate:  func(p *Params) { p.Governor = common.Address{} },
			wantErr: "governor",
		},
		{
			name:    "zero address in excluded list",
			mutate:  func(p *Params) { p.Excluded = []common.Address{{}} },
			wantErr: "excluded",
		},
		{
			name: "governor excluded from its own protocol",
			mutate: func(p *Params) {
				p.Excluded = []common.Address{vault, p.Governor}
			},
			wantErr: "governor cannot be excluded",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Default()
			tc.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestIsExcluded(t *testing.T) {
	vault := common.HexToAddress("0x000000000000000000000000000000000000Fa17")
	other := common.HexToAddress("0x0000000000000000000000000000000000000001")

	p := Default()
	assert.False(t, p.IsExcluded(vault))

	p.Excluded = []common.Address{vault}
	assert.True(t, p.IsExcluded(vault))
	assert.False(t, p.IsExcluded(other))
}
