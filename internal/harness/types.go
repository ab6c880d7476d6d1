package harness

// TraceEvent is one entry in a scenario's execution trace.
type TraceEvent struct {
	// Seq is the 1-based position in the trace.
	Seq int `json:"seq"`

	// Op is the step kind: advance or a governance operation name.
	Op string `json:"op"`

	// Actor is the acting account alias, empty for advance steps.
	Actor string `json:"actor,omitempty"`

	// Outcome is "ok" for successes and the rejection code otherwise.
	// Advance steps have no outcome.
	Outcome string `json:"outcome,omitempty"`

	// Detail carries an op-specific fact: the advanced duration, the new
	// proposal id, the vote weight, the queue eta, the execution output
	// count.
	Detail string `json:"detail,omitempty"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every step behaved as declared and every
	// assertion held.
	Pass bool `json:"pass"`

	// Trace lists every step's event in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists step mismatches and assertion failures.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates an empty passing result.
func NewResult() *Result {
	return &Result{Pass: true, Trace: []TraceEvent{}, Errors: []string{}}
}

// AddError records a failure and marks the result failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// AddTrace appends an event, assigning its sequence number.
func (r *Result) AddTrace(op, actor, outcome, detail string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     len(r.Trace) + 1,
		Op:      op,
		Actor:   actor,
		Outcome: outcome,
		Detail:  detail,
	})
}
