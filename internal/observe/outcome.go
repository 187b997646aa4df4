// Package observe turns the outcome of each session action into an
// observational record: a log line, a metric, and an optional shared tally.
// Nothing recorded here reaches the rendered screen.
package observe

import (
	"context"
	"time"

	"signin-screen/internal/provider"
)

// Action names a user-triggered session action.
type Action string

const (
	ActionSignIn  Action = "sign_in"
	ActionSignOut Action = "sign_out"
)

// ResultSuccess is the result of an action that completed without error.
const ResultSuccess = "success"

// Outcome describes one finished action.
type Outcome struct {
	Action   Action
	Result   string
	Err      error
	Duration time.Duration
}

// NewOutcome classifies err; a nil err is a success.
func NewOutcome(action Action, err error, duration time.Duration) Outcome {
	result := ResultSuccess
	if err != nil {
		result = string(provider.KindOf(err))
	}
	return Outcome{Action: action, Result: result, Err: err, Duration: duration}
}

// Field is the "action:result" label used for tallies.
func (o Outcome) Field() string {
	return string(o.Action) + ":" + o.Result
}

// Recorder observes outcomes. Implementations must not block for long and
// must not fail the action they observe.
type Recorder interface {
	Record(ctx context.Context, o Outcome)
}

// Multi fans an outcome out to every recorder in order.
type Multi []Recorder

// Record implements Recorder.
func (m Multi) Record(ctx context.Context, o Outcome) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, o)
		}
	}
}
