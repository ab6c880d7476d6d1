package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventMatchesSubsetSemantics(t *testing.T) {
	event := TraceEvent{Seq: 3, Op: "vote", Actor: "alice", Outcome: "ok", Detail: "weight=632"}

	assert.True(t, eventMatches(event, Assertion{Op: "vote"}))
	assert.True(t, eventMatches(event, Assertion{Op: "vote", Account: "alice"}))
	assert.True(t, eventMatches(event, Assertion{Op: "vote", Account: "alice", Outcome: "ok"}))

	assert.False(t, eventMatches(event, Assertion{Op: "lock"}))
	assert.False(t, eventMatches(event, Assertion{Op: "vote", Account: "bob"}))
	assert.False(t, eventMatches(event, Assertion{Op: "vote", Outcome: "VOTING_CLOSED"}))
}

func TestTraceMatches(t *testing.T) {
	trace := []TraceEvent{
		{Seq: 1, Op: "lock", Actor: "alice", Outcome: "ok"},
		{Seq: 2, Op: "vote", Actor: "alice", Outcome: "VOTING_CLOSED"},
	}

	assert.True(t, traceMatches(trace, Assertion{Op: "vote", Outcome: "VOTING_CLOSED"}))
	assert.False(t, traceMatches(trace, Assertion{Op: "queue"}))
}
