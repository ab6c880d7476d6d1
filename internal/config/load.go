package config

import (
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/ethereum/go-ethereum/common"
)

// paramsSchema constrains override files. close() rejects unknown fields,
// which catches typos like "votingPeriodDays" before they silently fall
// back to a default.
const paramsSchema = `
close({
	minimumLockTokens?:       uint & >0
	proposalThresholdTokens?: uint & >0
	minLockAge?:              string
	votingPeriod?:            string
	timelockDelay?:           string
	gracePeriod?:             string
	quorumNumerator?:         uint & >0
	quorumDenominator?:       uint & >0
	governor?:                string & =~"^0x[0-9a-fA-F]{40}$"
	excluded?: [...string & =~"^0x[0-9a-fA-F]{40}$"]
})
`

// Load reads a CUE parameter file and overlays it on Default().
// Absent fields keep their defaults; the merged result must Validate.
func Load(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(paramsSchema)
	if err := schema.Err(); err != nil {
		return Params{}, fmt.Errorf("config: internal schema error: %w", err)
	}

	file := ctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		return Params{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	merged := schema.Unify(file)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return Params{}, fmt.Errorf("config: invalid parameter file %s: %w", path, err)
	}

	p := Default()
	if err := applyOverrides(merged, &p); err != nil {
		return Params{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func applyOverrides(v cue.Value, p *Params) error {
	if err := lookupUint(v, "minimumLockTokens", &p.MinimumLockTokens); err != nil {
		return err
	}
	if err := lookupUint(v, "proposalThresholdTokens", &p.ProposalThresholdTokens); err != nil {
		return err
	}
	if err := lookupDuration(v, "minLockAge", &p.MinLockAge); err != nil {
		return err
	}
	if err := lookupDuration(v, "votingPeriod", &p.VotingPeriod); err != nil {
		return err
	}
	if err := lookupDuration(v, "timelockDelay", &p.TimelockDelay); err != nil {
		return err
	}
	if err := lookupDuration(v, "gracePeriod", &p.GracePeriod); err != nil {
		return err
	}
	if err := lookupUint(v, "quorumNumerator", &p.QuorumNumerator); err != nil {
		return err
	}
	if err := lookupUint(v, "quorumDenominator", &p.QuorumDenominator); err != nil {
		return err
	}

	if gov := v.LookupPath(cue.ParsePath("governor")); gov.Exists() {
		s, err := gov.String()
		if err != nil {
			return fmt.Errorf("governor: %w", err)
		}
		p.Governor = common.HexToAddress(s)
	}

	if exc := v.LookupPath(cue.ParsePath("excluded")); exc.Exists() {
		iter, err := exc.List()
		if err != nil {
			return fmt.Errorf("excluded: %w", err)
		}
		var addrs []common.Address
		for iter.Next() {
			s, err := iter.Value().String()
			if err != nil {
				return fmt.Errorf("excluded: %w", err)
			}
			addrs = append(addrs, common.HexToAddress(s))
		}
		p.Excluded = addrs
	}

	return nil
}

func lookupUint(v cue.Value, field string, dst *uint64) error {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return nil
	}
	u, err := f.Uint64()
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = u
	return nil
}

func lookupDuration(v cue.Value, field string, dst *time.Duration) error {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return nil
	}
	s, err := f.String()
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}
