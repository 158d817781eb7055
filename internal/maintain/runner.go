// Package maintain implements the day-2 operations against a deployed
// stack: update, backup, cleanup, restart, log streaming, and the
// security audit. Actions are serialized per target by Runner.
package maintain

import (
	"errors"
	"fmt"
	"sync"
)

// ActionState tracks where an action is in its lifecycle.
type ActionState string

const (
	StateIdle      ActionState = "idle"
	StateRunning   ActionState = "running"
	StateCompleted ActionState = "completed"
	StateFailed    ActionState = "failed"
)

// ErrActionInFlight is returned when an action is requested for a target
// that already has one running.
var ErrActionInFlight = errors.New("action already in flight")

// StepResult records the outcome of one sub-step of a composite action.
type StepResult struct {
	Name string
	Err  error
}

// OK reports whether the step succeeded.
func (s StepResult) OK() bool { return s.Err == nil }

// Runner enforces at most one concurrent action per target. A second
// invocation for a busy target fails fast instead of queueing.
type Runner struct {
	mu     sync.Mutex
	states map[string]ActionState
}

// NewRunner returns a Runner with all targets idle.
func NewRunner() *Runner {
	return &Runner{states: make(map[string]ActionState)}
}

// Run executes fn under the target's slot. It returns ErrActionInFlight
// without calling fn if the target is busy; otherwise it returns fn's error.
func (r *Runner) Run(target string, fn func() error) error {
	r.mu.Lock()
	if r.states[target] == StateRunning {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrActionInFlight, target)
	}
	r.states[target] = StateRunning
	r.mu.Unlock()

	err := fn()

	r.mu.Lock()
	if err != nil {
		r.states[target] = StateFailed
	} else {
		r.states[target] = StateCompleted
	}
	r.mu.Unlock()
	return err
}

// State returns the target's last observed state, StateIdle if never run.
func (r *Runner) State(target string) ActionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.states[target]; ok {
		return s
	}
	return StateIdle
}
