package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is one conformance scenario: a genesis distribution, a step
// sequence, and assertions over the final state.
type Scenario struct {
	// Name uniquely identifies the scenario; it doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description"`

	// Genesis maps account aliases to whole-token balances minted before
	// any step runs.
	Genesis map[string]string `yaml:"genesis"`

	// Steps run in order against a shared engine and clock.
	Steps []Step `yaml:"steps"`

	// Assertions validate final state after all steps.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is either a clock advance or a governance operation. Exactly one of
// Advance and Op must be set.
type Step struct {
	// Advance moves the clock forward, e.g. "168h".
	Advance string `yaml:"advance,omitempty"`

	// Op names the operation: lock, unlock, propose, vote, queue,
	// execute, cancel, mark_expired.
	Op string `yaml:"op,omitempty"`

	// Actor is the account alias performing the operation.
	Actor string `yaml:"actor,omitempty"`

	// Amount is a whole-token quantity (lock).
	Amount string `yaml:"amount,omitempty"`

	// Description is the proposal text (propose).
	Description string `yaml:"description,omitempty"`

	// Actions lists the proposal's actions (propose).
	Actions []ActionSpec `yaml:"actions,omitempty"`

	// Proposal identifies the target proposal (vote, queue, execute,
	// cancel, mark_expired).
	Proposal uint64 `yaml:"proposal,omitempty"`

	// Support is the vote direction (vote).
	Support bool `yaml:"support,omitempty"`

	// Value is the base-unit value total supplied at execution (execute).
	// Defaults to zero.
	Value string `yaml:"value,omitempty"`

	// ExpectError names the rejection code the step must produce. Empty
	// means the step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// ActionSpec describes one proposal action. Targets are aliases resolved to
// addresses the same way actor aliases are.
type ActionSpec struct {
	Target    string `yaml:"target"`
	Value     string `yaml:"value,omitempty"`
	Signature string `yaml:"signature,omitempty"`
	Payload   string `yaml:"payload,omitempty"`
}

// Assertion validates one aspect of the final state.
type Assertion struct {
	// Type selects the check: state, tally, power, total_locked, quorum,
	// trace_contains, trace_count.
	Type string `yaml:"type"`

	// Proposal identifies the proposal (state, tally).
	Proposal uint64 `yaml:"proposal,omitempty"`

	// Expect is the expected lifecycle state name (state).
	Expect string `yaml:"expect,omitempty"`

	// For and Against are expected vote totals (tally).
	For     string `yaml:"for,omitempty"`
	Against string `yaml:"against,omitempty"`

	// Account is the account alias (power).
	Account string `yaml:"account,omitempty"`

	// Weight is the expected quadratic weight (power) or required quorum
	// weight (quorum).
	Weight string `yaml:"weight,omitempty"`

	// Eligible is whether the account may vote right now (power).
	Eligible bool `yaml:"eligible,omitempty"`

	// Amount is the expected whole-token total (total_locked).
	Amount string `yaml:"amount,omitempty"`

	// Op and Outcome match trace events (trace_contains, trace_count).
	Op      string `yaml:"op,omitempty"`
	Outcome string `yaml:"outcome,omitempty"`

	// Count is the expected number of matches (trace_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type names.
const (
	AssertState         = "state"
	AssertTally         = "tally"
	AssertPower         = "power"
	AssertTotalLocked   = "total_locked"
	AssertQuorum        = "quorum"
	AssertTraceContains = "trace_contains"
	AssertTraceCount    = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so that typos fail loudly instead of silently validating nothing.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *Step) error {
	if (step.Advance == "") == (step.Op == "") {
		return fmt.Errorf("steps[%d]: exactly one of advance and op is required", index)
	}
	if step.Advance != "" {
		if _, err := time.ParseDuration(step.Advance); err != nil {
			return fmt.Errorf("steps[%d]: bad advance duration: %w", index, err)
		}
		return nil
	}

	switch step.Op {
	case "lock":
		if step.Actor == "" || step.Amount == "" {
			return fmt.Errorf("steps[%d]: lock requires actor and amount", index)
		}
	case "unlock":
		if step.Actor == "" {
			return fmt.Errorf("steps[%d]: unlock requires actor", index)
		}
	case "propose":
		if step.Actor == "" || step.Description == "" || len(step.Actions) == 0 {
			return fmt.Errorf("steps[%d]: propose requires actor, description and actions", index)
		}
		for j, a := range step.Actions {
			if a.Target == "" {
				return fmt.Errorf("steps[%d].actions[%d]: target is required", index, j)
			}
		}
	case "vote", "queue", "execute", "cancel":
		if step.Actor == "" || step.Proposal == 0 {
			return fmt.Errorf("steps[%d]: %s requires actor and proposal", index, step.Op)
		}
	case "mark_expired":
		if step.Proposal == 0 {
			return fmt.Errorf("steps[%d]: mark_expired requires proposal", index)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertState:
		if a.Proposal == 0 || a.Expect == "" {
			return fmt.Errorf("assertions[%d]: state requires proposal and expect", index)
		}
	case AssertTally:
		if a.Proposal == 0 || a.For == "" || a.Against == "" {
			return fmt.Errorf("assertions[%d]: tally requires proposal, for and against", index)
		}
	case AssertPower:
		if a.Account == "" || a.Weight == "" {
			return fmt.Errorf("assertions[%d]: power requires account and weight", index)
		}
	case AssertTotalLocked:
		if a.Amount == "" {
			return fmt.Errorf("assertions[%d]: total_locked requires amount", index)
		}
	case AssertQuorum:
		if a.Weight == "" {
			return fmt.Errorf("assertions[%d]: quorum requires weight", index)
		}
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: trace_contains requires op", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: trace_count requires op", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
