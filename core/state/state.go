// Package state defines the engine processor state machine.
package state

import "fmt"

// ProcessorState represents the lifecycle state of a keystroke processor.
type ProcessorState int

const (
	// StateIdle is the initial state before the processor starts.
	StateIdle ProcessorState = iota
	// StateRunning indicates the polling loop is active.
	StateRunning
	// StateStopping indicates termination was signaled and in-flight
	// presses are draining.
	StateStopping
	// StateTerminated indicates the processor has fully stopped.
	StateTerminated
)

// String returns the string representation of the state.
func (s ProcessorState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateTerminated:
		return "Terminated"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// validTransitions defines the allowed state transitions.
// Key is the current state, value is a list of valid target states.
var validTransitions = map[ProcessorState][]ProcessorState{
	StateIdle:       {StateRunning},
	StateRunning:    {StateStopping, StateTerminated},
	StateStopping:   {StateTerminated},
	StateTerminated: {}, // Terminal state, no transitions allowed
}

// CanTransitionTo checks if transitioning from the current state to the target state is valid.
func (s ProcessorState) CanTransitionTo(target ProcessorState) bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// ValidTransitions returns the list of valid target states from the current state.
func (s ProcessorState) ValidTransitions() []ProcessorState {
	return validTransitions[s]
}

// IsTerminal returns true if the state is a terminal state (no further transitions).
func (s ProcessorState) IsTerminal() bool {
	return s == StateTerminated
}

// IsActive returns true while the processor may still issue presses.
func (s ProcessorState) IsActive() bool {
	return s == StateRunning
}

// TransitionError represents an invalid state transition attempt.
type TransitionError struct {
	From   ProcessorState
	To     ProcessorState
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid state transition from %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(from, to ProcessorState, reason string) *TransitionError {
	return &TransitionError{From: from, To: to, Reason: reason}
}
