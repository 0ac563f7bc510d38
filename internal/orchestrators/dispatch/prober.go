package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-palette/internal/clients/host"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/probe"
	"github.com/KirkDiggler/rpg-palette/internal/pkg/value"
)

// Validator decides whether a probe result counts as success
type Validator func(result value.Value) bool

// NotFalse accepts anything except an explicit false, including no result
func NotFalse(result value.Value) bool {
	return !result.IsFalse()
}

// Present accepts results that are neither missing nor false
func Present(result value.Value) bool {
	return !result.IsNull() && !result.IsFalse()
}

// Candidate is one receiver method with the argument sets to try on it
type Candidate struct {
	Receiver string
	Method   string
	Call     host.Func
	// ArgSets are tried in order. Empty means a single call with no
	// arguments.
	ArgSets [][]host.Arg
	// Validator overrides the prober's validator for this candidate
	Validator Validator
}

// Outcome is the terminal state of one probe run
type Outcome struct {
	Succeeded bool
	Result    value.Value
	Receiver  string
	Method    string
	// ArgSet is the index of the winning argument set
	ArgSet int
	// Probes counts every invocation attempted
	Probes int
}

// Prober invokes candidates strictly in order until one succeeds
type Prober struct {
	// Timeout bounds each invocation when positive
	Timeout time.Duration
}

// Run probes candidates in declared order, one invocation at a time, and
// stops at the first result the validator accepts. Host errors, panics and
// timeouts only advance the search.
func (p *Prober) Run(ctx context.Context, candidates []Candidate, validate Validator) Outcome {
	if validate == nil {
		validate = NotFalse
	}

	out := Outcome{}
	for _, c := range candidates {
		if c.Call == nil {
			continue
		}
		accept := validate
		if c.Validator != nil {
			accept = c.Validator
		}

		argSets := c.ArgSets
		if len(argSets) == 0 {
			argSets = [][]host.Arg{nil}
		}

		for i, args := range argSets {
			if ctx.Err() != nil {
				return out
			}
			out.Probes++
			result, err := probe.Call(ctx, p.Timeout, c.Call, args)
			if err != nil {
				slog.Debug("dispatch probe failed",
					"receiver", c.Receiver,
					"method", c.Method,
					"arg_set", i,
					"error", err)
				continue
			}
			if !accept(result) {
				continue
			}
			out.Succeeded = true
			out.Result = result
			out.Receiver = c.Receiver
			out.Method = c.Method
			out.ArgSet = i
			return out
		}
	}
	return out
}
